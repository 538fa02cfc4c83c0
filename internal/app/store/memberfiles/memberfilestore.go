// internal/app/store/memberfiles/memberfilestore.go
package memberfilestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store covers member files and their status awards. The two collections
// travel together: a MemberStatus is meaningless without its MemberFile.
type Store struct {
	files    *mongo.Collection
	statuses *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		files:    db.Collection("member_files"),
		statuses: db.Collection("member_statuses"),
	}
}

// ErrDuplicateEnrollment is returned when the enrollment number is
// already filed for the club.
var ErrDuplicateEnrollment = errors.New("a member file with this enrollment number already exists in the club")

// GetByID loads a member file by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MemberFile, error) {
	var f models.MemberFile
	if err := s.files.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a member file.
func (s *Store) Create(ctx context.Context, f models.MemberFile) (models.MemberFile, error) {
	f.ID = primitive.NewObjectID()
	f.Name = normalize.Name(f.Name)
	f.NameCI = text.Fold(f.Name)
	f.EnrollmentNumber = normalize.Enrollment(f.EnrollmentNumber)
	f.Position = normalize.Name(f.Position)

	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	if _, err := s.files.InsertOne(ctx, f); err != nil {
		if wafflemongo.IsDup(err) {
			return models.MemberFile{}, ErrDuplicateEnrollment
		}
		return models.MemberFile{}, err
	}
	return f, nil
}

// ListByClub returns a club's member files sorted by name, capped at limit.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID, limit int64) ([]models.MemberFile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.files.Find(ctx, bson.M{"club_id": clubID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var files []models.MemberFile
	if err := cur.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// RecordStatus appends one award record for a member file. Statuses are
// append-only display records; they never feed TeamMember aggregates.
func (s *Store) RecordStatus(ctx context.Context, st models.MemberStatus) (models.MemberStatus, error) {
	var f models.MemberFile
	if err := s.files.FindOne(ctx, bson.M{"_id": st.MemberFileID}).Decode(&f); err != nil {
		return models.MemberStatus{}, err
	}

	st.ID = primitive.NewObjectID()
	st.ClubID = f.ClubID
	st.Remark = htmlsanitize.StripTags(st.Remark)
	st.RecordedAt = time.Now().UTC()

	if _, err := s.statuses.InsertOne(ctx, st); err != nil {
		return models.MemberStatus{}, err
	}
	return st, nil
}

// ListStatuses returns a member file's awards, newest first.
func (s *Store) ListStatuses(ctx context.Context, memberFileID primitive.ObjectID) ([]models.MemberStatus, error) {
	opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: -1}})
	cur, err := s.statuses.Find(ctx, bson.M{"member_file_id": memberFileID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var statuses []models.MemberStatus
	if err := cur.All(ctx, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}
