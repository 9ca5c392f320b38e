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

type TaskStore struct {
	coll    *mongo.Collection
	users   *UserStore
	sprints *SprintStore
}

func NewTaskStore(db *mongo.Database) *TaskStore {
	return &TaskStore{
		coll:    db.Collection(tasksCollection),
		users:   NewUserStore(db),
		sprints: NewSprintStore(db),
	}
}

func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := time.Now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now
	_, err := s.coll.InsertOne(ctx, newTaskDoc(task))
	return err
}

func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var doc taskDoc
	err := s.coll.FindOne(ctx, idFilter(id.String())).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tasks, err := s.populate(ctx, []taskDoc{doc}, false)
	if err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

func (s *TaskStore) List(ctx context.Context) ([]model.Task, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []taskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return s.populate(ctx, docs, true)
}

func (s *TaskStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Task, error) {
	if len(ids) == 0 {
		return []model.Task{}, nil
	}
	cursor, err := s.coll.Find(ctx, idsFilter(idStrings(ids)))
	if err != nil {
		return nil, err
	}
	var docs []taskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return s.populate(ctx, docs, false)
}

func (s *TaskStore) Update(ctx context.Context, task *model.Task) error {
	var assignee interface{}
	if task.AssignedTo != nil {
		assignee = task.AssignedTo.String()
	}
	task.UpdatedAt = time.Now().UTC()

	res, err := s.coll.UpdateOne(ctx, idFilter(task.ID.String()), bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"priority":    string(task.Priority),
		"assignedTo":  assignee,
		"sprint":      task.SprintID.String(),
		"updatedAt":   task.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, idFilter(id.String()))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) UpdateStatus(ctx context.Context, ids []uuid.UUID, status model.TaskStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.coll.UpdateMany(ctx, idsFilter(idStrings(ids)), bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// populate converts documents and resolves assignees, and sprints when withSprint is set.
func (s *TaskStore) populate(ctx context.Context, docs []taskDoc, withSprint bool) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(docs))
	userIDs := make([]string, 0, len(docs))
	sprintIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		t, err := d.model()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
		if d.AssignedTo != nil {
			userIDs = append(userIDs, *d.AssignedTo)
		}
		sprintIDs = append(sprintIDs, d.Sprint)
	}

	users, err := s.users.byIDs(ctx, dedupe(userIDs))
	if err != nil {
		return nil, err
	}
	var sprints map[uuid.UUID]model.Sprint
	if withSprint {
		if sprints, err = s.sprints.byIDs(ctx, dedupe(sprintIDs)); err != nil {
			return nil, err
		}
	}

	for i := range tasks {
		if tasks[i].AssignedTo != nil {
			if u, ok := users[*tasks[i].AssignedTo]; ok {
				tasks[i].Assignee = &u
			}
		}
		if sp, ok := sprints[tasks[i].SprintID]; ok {
			tasks[i].Sprint = &sp
		}
	}
	return tasks, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
