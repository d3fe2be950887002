package client

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/Alijeyrad/ticketcreator_backend/pkg/docshape"
)

// decode canonicalizes a generic JSON tree and maps it onto out using the
// json tags of the target type.
func decode(tree any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     out,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(docshape.Canonical(tree)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}
