// internal/app/service/scoring_test.go
package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/faults"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

type scoringEnv struct {
	members *fakeMembers
	roles   *fakeRoles
	svc     *Scoring
}

func newScoringEnv() *scoringEnv {
	env := &scoringEnv{
		members: newFakeMembers(),
		roles:   &fakeRoles{roles: make(map[primitive.ObjectID]authz.Role)},
	}
	env.svc = NewScoring(env.members, env.roles, defaultFakeSettings(), nopAudit())
	return env
}

func (env *scoringEnv) leader(clubID primitive.ObjectID) primitive.ObjectID {
	id := primitive.NewObjectID()
	env.roles.roles[id] = authz.Role{Kind: authz.ClubLeader, ClubID: clubID}
	return id
}

func TestAwardSequenceKeepsAggregatesInSync(t *testing.T) {
	env := newScoringEnv()
	clubID := primitive.NewObjectID()
	leaderID := env.leader(clubID)
	member := env.members.put(&models.TeamMember{ClubID: clubID, Name: "Pat", EnrollmentNumber: "EN-001"})

	first, err := env.svc.Award(context.Background(), ident(leaderID), AwardInput{MemberID: member.ID, Points: 10, Hours: 2})
	if err != nil {
		t.Fatalf("first Award: %v", err)
	}
	if first.Points != 10 || first.Hours != 2 {
		t.Fatalf("after first award: points=%d hours=%v", first.Points, first.Hours)
	}

	second, err := env.svc.Award(context.Background(), ident(leaderID), AwardInput{MemberID: member.ID, Points: -3, Hours: 0})
	if err != nil {
		t.Fatalf("second Award: %v", err)
	}
	if second.Points != 7 || second.Hours != 2 {
		t.Fatalf("after correction: points=%d hours=%v, want 7/2", second.Points, second.Hours)
	}
	if len(second.UpdateHistory) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(second.UpdateHistory))
	}

	var sumPoints int
	var sumHours float64
	for _, e := range second.UpdateHistory {
		sumPoints += e.Points
		sumHours += e.Hours
	}
	if sumPoints != second.Points || sumHours != second.Hours {
		t.Fatalf("aggregates diverged from ledger: %d/%v vs %d/%v", second.Points, second.Hours, sumPoints, sumHours)
	}
}

func TestAwardRefusesNegativeAggregate(t *testing.T) {
	env := newScoringEnv()
	clubID := primitive.NewObjectID()
	leaderID := env.leader(clubID)
	member := env.members.put(&models.TeamMember{ClubID: clubID, Name: "Pat", EnrollmentNumber: "EN-001", Points: 5, Hours: 1})

	_, err := env.svc.Award(context.Background(), ident(leaderID), AwardInput{MemberID: member.ID, Points: -8})
	if !faults.Is(err, faults.NegativeAggregate) {
		t.Fatalf("got %v, want NegativeAggregate", err)
	}

	stored, _ := env.members.GetByID(context.Background(), member.ID)
	if stored.Points != 5 || len(stored.UpdateHistory) != 0 {
		t.Fatalf("refused award mutated the member: %+v", stored)
	}
}

func TestAwardPolicy(t *testing.T) {
	env := newScoringEnv()
	clubID := primitive.NewObjectID()
	member := env.members.put(&models.TeamMember{ClubID: clubID, Name: "Pat", EnrollmentNumber: "EN-001"})

	t.Run("club member denied", func(t *testing.T) {
		memberUser := primitive.NewObjectID()
		env.roles.roles[memberUser] = authz.Role{Kind: authz.ClubMember, ClubID: clubID}
		_, err := env.svc.Award(context.Background(), ident(memberUser), AwardInput{MemberID: member.ID, Points: 5})
		if !faults.Is(err, faults.InsufficientRole) {
			t.Fatalf("got %v, want InsufficientRole", err)
		}
	})

	t.Run("other club leader denied", func(t *testing.T) {
		otherLeader := env.leader(primitive.NewObjectID())
		_, err := env.svc.Award(context.Background(), ident(otherLeader), AwardInput{MemberID: member.ID, Points: 5})
		if !faults.Is(err, faults.InsufficientRole) {
			t.Fatalf("got %v, want InsufficientRole", err)
		}
	})

	t.Run("admin allowed", func(t *testing.T) {
		admin := primitive.NewObjectID()
		env.roles.roles[admin] = authz.Role{Kind: authz.SystemAdmin}
		if _, err := env.svc.Award(context.Background(), ident(admin), AwardInput{MemberID: member.ID, Points: 1}); err != nil {
			t.Fatalf("admin Award: %v", err)
		}
	})
}

func TestAwardValidation(t *testing.T) {
	env := newScoringEnv()
	clubID := primitive.NewObjectID()
	leaderID := env.leader(clubID)
	member := env.members.put(&models.TeamMember{ClubID: clubID, Name: "Pat", EnrollmentNumber: "EN-001"})

	if _, err := env.svc.Award(context.Background(), ident(leaderID), AwardInput{MemberID: member.ID}); !faults.Is(err, faults.InvalidInput) {
		t.Fatalf("zero award: got %v, want InvalidInput", err)
	}
	if _, err := env.svc.Award(context.Background(), ident(leaderID), AwardInput{MemberID: primitive.NewObjectID(), Points: 1}); !faults.Is(err, faults.NotFound) {
		t.Fatalf("unknown member: got %v, want NotFound", err)
	}
}

func TestAddMember(t *testing.T) {
	env := newScoringEnv()
	clubID := primitive.NewObjectID()
	leaderID := env.leader(clubID)

	created, err := env.svc.AddMember(context.Background(), ident(leaderID), AddMemberInput{
		ClubID:           clubID,
		Name:             " Pat Delgado ",
		EnrollmentNumber: "en-001",
	})
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if created.Name != "Pat Delgado" || created.EnrollmentNumber != "EN-001" {
		t.Fatalf("inputs not normalized: %+v", created)
	}
	if created.Points != 0 || created.Hours != 0 || len(created.UpdateHistory) != 0 {
		t.Fatalf("new member not zeroed: %+v", created)
	}

	_, err = env.svc.AddMember(context.Background(), ident(leaderID), AddMemberInput{
		ClubID:           clubID,
		Name:             "Other",
		EnrollmentNumber: "EN-001",
	})
	if !faults.Is(err, faults.InvalidInput) {
		t.Fatalf("duplicate enrollment: got %v, want InvalidInput", err)
	}
}

func TestHistoryReadableByClubMember(t *testing.T) {
	env := newScoringEnv()
	clubID := primitive.NewObjectID()
	leaderID := env.leader(clubID)
	member := env.members.put(&models.TeamMember{ClubID: clubID, Name: "Pat", EnrollmentNumber: "EN-001"})

	if _, err := env.svc.Award(context.Background(), ident(leaderID), AwardInput{MemberID: member.ID, Points: 4, Hours: 1}); err != nil {
		t.Fatalf("Award: %v", err)
	}

	reader := primitive.NewObjectID()
	env.roles.roles[reader] = authz.Role{Kind: authz.ClubMember, ClubID: clubID}
	history, err := env.svc.History(context.Background(), ident(reader), member.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Points != 4 {
		t.Fatalf("unexpected history: %+v", history)
	}

	outsider := primitive.NewObjectID()
	env.roles.roles[outsider] = authz.Role{Kind: authz.ClubMember, ClubID: primitive.NewObjectID()}
	if _, err := env.svc.History(context.Background(), ident(outsider), member.ID); !faults.Is(err, faults.InsufficientRole) {
		t.Fatalf("outsider History: got %v, want InsufficientRole", err)
	}
}
