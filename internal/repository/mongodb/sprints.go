package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Anthanoess/task-app/internal/model"
	"github.com/Anthanoess/task-app/internal/repository"
)

type SprintStore struct {
	coll *mongo.Collection
}

func NewSprintStore(db *mongo.Database) *SprintStore {
	return &SprintStore{coll: db.Collection(sprintsCollection)}
}

func (s *SprintStore) Create(ctx context.Context, sprint *model.Sprint) error {
	if sprint.ID == uuid.Nil {
		sprint.ID = uuid.New()
	}
	now := time.Now().UTC()
	sprint.CreatedAt, sprint.UpdatedAt = now, now
	_, err := s.coll.InsertOne(ctx, newSprintDoc(sprint))
	return err
}

func (s *SprintStore) List(ctx context.Context) ([]model.Sprint, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "endDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []sprintDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return sprintsFromDocs(docs)
}

func (s *SprintStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Sprint, error) {
	var doc sprintDoc
	err := s.coll.FindOne(ctx, idFilter(id.String())).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sprint, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (s *SprintStore) Update(ctx context.Context, sprint *model.Sprint) error {
	sprint.UpdatedAt = time.Now().UTC()
	res, err := s.coll.UpdateOne(ctx, idFilter(sprint.ID.String()), bson.M{"$set": bson.M{
		"name":      sprint.Name,
		"startDate": sprint.StartDate,
		"endDate":   sprint.EndDate,
		"status":    string(sprint.Status),
		"updatedAt": sprint.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrSprintNotFound
	}
	return nil
}

func (s *SprintStore) MarkCompleted(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	filter := bson.M{
		"_id":    bson.M{"$in": idStrings(ids)},
		"status": bson.M{"$ne": string(model.SprintCompleted)},
	}
	_, err := s.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{
		"status":    string(model.SprintCompleted),
		"updatedAt": time.Now().UTC(),
	}})
	return err
}

// byIDs loads the given sprints keyed by id, for populating task references.
func (s *SprintStore) byIDs(ctx context.Context, ids []string) (map[uuid.UUID]model.Sprint, error) {
	out := make(map[uuid.UUID]model.Sprint, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.coll.Find(ctx, idsFilter(ids))
	if err != nil {
		return nil, err
	}
	var docs []sprintDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	sprints, err := sprintsFromDocs(docs)
	if err != nil {
		return nil, err
	}
	for _, sp := range sprints {
		out[sp.ID] = sp
	}
	return out, nil
}

func sprintsFromDocs(docs []sprintDoc) ([]model.Sprint, error) {
	sprints := make([]model.Sprint, 0, len(docs))
	for _, d := range docs {
		sp, err := d.model()
		if err != nil {
			return nil, err
		}
		sprints = append(sprints, sp)
	}
	return sprints, nil
}
