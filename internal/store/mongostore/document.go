package mongostore

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
	"github.com/Alijeyrad/ticketcreator_backend/internal/store"
)

// ticketDocument is the stored shape. Every document and sub-document is
// keyed by an ObjectID under _id; project_ci mirrors project normalized so
// it can be indexed.
type ticketDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Project     string             `bson:"project"`
	ProjectCI   string             `bson:"project_ci"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	Assignee    string             `bson:"assignee"`
	Steps       []stepDocument     `bson:"steps"`
	Notes       []noteDocument     `bson:"notes"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type stepDocument struct {
	ID     primitive.ObjectID `bson:"_id"`
	Title  string             `bson:"title"`
	Notes  string             `bson:"notes,omitempty"`
	Status string             `bson:"status"`
}

type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Body      string             `bson:"body"`
	Author    string             `bson:"author"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// objectID parses a hex id; sub-document ids that are not ObjectIDs get a
// fresh one so the document stays well formed.
func objectID(hex string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NewObjectID()
	}
	return oid
}

func toDocument(t *model.Ticket) (ticketDocument, error) {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return ticketDocument{}, err
	}

	doc := ticketDocument{
		ID:          oid,
		Project:     t.Project,
		ProjectCI:   model.NormalizeProject(t.Project),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Assignee:    t.Assignee,
		Steps:       make([]stepDocument, 0, len(t.Steps)),
		Notes:       make([]noteDocument, 0, len(t.Notes)),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, s := range t.Steps {
		doc.Steps = append(doc.Steps, stepDocument{
			ID:     objectID(s.ID),
			Title:  s.Title,
			Notes:  s.Notes,
			Status: string(s.Status),
		})
	}
	for _, n := range t.Notes {
		doc.Notes = append(doc.Notes, noteDocument{
			ID:        objectID(n.ID),
			Body:      n.Body,
			Author:    n.Author,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		})
	}
	return doc, nil
}

func (d ticketDocument) toModel() *model.Ticket {
	t := &model.Ticket{
		ID:          d.ID.Hex(),
		Project:     d.Project,
		Title:       d.Title,
		Description: d.Description,
		Status:      model.Status(d.Status),
		Priority:    model.Priority(d.Priority),
		Assignee:    d.Assignee,
		Steps:       make(model.Steps, 0, len(d.Steps)),
		Notes:       make(model.Notes, 0, len(d.Notes)),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	for _, s := range d.Steps {
		t.Steps = append(t.Steps, model.Step{
			ID:     s.ID.Hex(),
			Title:  s.Title,
			Notes:  s.Notes,
			Status: model.StepStatus(s.Status),
		})
	}
	for _, n := range d.Notes {
		t.Notes = append(t.Notes, model.Note{
			ID:        n.ID.Hex(),
			Body:      n.Body,
			Author:    n.Author,
			CreatedAt: n.CreatedAt.UTC(),
			UpdatedAt: n.UpdatedAt.UTC(),
		})
	}
	return t
}

// buildFilter translates a store.Query into a Mongo filter. The title
// search is a quoted regex so user input is always a literal substring.
func buildFilter(q store.Query) bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = string(q.Status)
	}
	if q.Priority != "" {
		filter["priority"] = string(q.Priority)
	}
	if q.Project != "" {
		filter["project_ci"] = q.Project
	}
	if q.Title != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Title), Options: "i"}
	}
	return filter
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
