package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/huddleup/pickem/internal/adapters/repository"
	"github.com/huddleup/pickem/internal/domain/model"
)

func validPick(id, user, event string, at time.Time) model.PickRecord {
	return model.PickRecord{
		PickID:      id,
		UserID:      user,
		EventID:     event,
		Side:        model.SideHome,
		Confidence:  model.ConfidenceMedium,
		SubmittedAt: at,
	}
}

func TestMemStore_RecordPick(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

		Convey("When recording a valid pick", func() {
			err := store.RecordPick(ctx, validPick("p1", "alice", "e1", now))

			Convey("Then it is stored with a pending outcome", func() {
				So(err, ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 1)

				r, err := store.Pick(ctx, "p1")
				So(err, ShouldBeNil)
				So(r.Outcome, ShouldEqual, model.OutcomePending)
			})
		})

		Convey("When recording the same pick id twice", func() {
			So(store.RecordPick(ctx, validPick("p1", "alice", "e1", now)), ShouldBeNil)
			err := store.RecordPick(ctx, validPick("p1", "alice", "e1", now))

			Convey("Then the second write is rejected", func() {
				So(errors.Is(err, repository.ErrDuplicatePick), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When recording malformed picks", func() {
			cases := []model.PickRecord{
				validPick("", "alice", "e1", now),
				validPick("p1", "  ", "e1", now),
				validPick("p1", "alice", "", now),
				{PickID: "p1", UserID: "alice", EventID: "e1", Side: model.Side("draw")},
			}

			Convey("Then each is rejected as invalid", func() {
				for _, c := range cases {
					So(errors.Is(store.RecordPick(ctx, c), repository.ErrInvalidPick), ShouldBeTrue)
				}
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestMemStore_ResolveOutcome(t *testing.T) {
	Convey("Given a store with one pending pick", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
		So(store.RecordPick(ctx, validPick("p1", "alice", "e1", now)), ShouldBeNil)

		Convey("When resolving it to correct", func() {
			err := store.ResolveOutcome(ctx, "p1", model.OutcomeCorrect)

			Convey("Then the outcome sticks", func() {
				So(err, ShouldBeNil)
				r, err := store.Pick(ctx, "p1")
				So(err, ShouldBeNil)
				So(r.Outcome, ShouldEqual, model.OutcomeCorrect)
			})

			Convey("And a second resolution is refused", func() {
				err := store.ResolveOutcome(ctx, "p1", model.OutcomeIncorrect)
				So(errors.Is(err, repository.ErrOutcomeResolved), ShouldBeTrue)

				r, _ := store.Pick(ctx, "p1")
				So(r.Outcome, ShouldEqual, model.OutcomeCorrect)
			})
		})

		Convey("When resolving to a non-decided outcome", func() {
			err := store.ResolveOutcome(ctx, "p1", model.OutcomePending)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, repository.ErrInvalidOutcome), ShouldBeTrue)
			})
		})

		Convey("When resolving an unknown pick", func() {
			err := store.ResolveOutcome(ctx, "nope", model.OutcomeCorrect)

			Convey("Then it reports not found", func() {
				So(errors.Is(err, repository.ErrPickNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestMemStore_Picks(t *testing.T) {
	Convey("Given a store with picks from two users across two events", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

		seed := []model.PickRecord{
			validPick("p1", "alice", "e1", now.AddDate(0, 0, -10)),
			validPick("p2", "bob", "e1", now.AddDate(0, 0, -5)),
			validPick("p3", "alice", "e2", now.AddDate(0, 0, -1)),
			validPick("p4", "alice", "e1", now),
		}
		for _, p := range seed {
			So(store.RecordPick(ctx, p), ShouldBeNil)
		}

		Convey("When querying by user", func() {
			got, err := store.Picks(ctx, repository.Query{UserID: "alice"})

			Convey("Then only that user's picks return, oldest first", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 3)
				So(got[0].PickID, ShouldEqual, "p1")
				So(got[2].PickID, ShouldEqual, "p4")
			})
		})

		Convey("When querying by event", func() {
			got, err := store.Picks(ctx, repository.Query{EventID: "e1"})

			Convey("Then every pick on the event returns", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 3)
			})
		})

		Convey("When querying by user and event together", func() {
			got, err := store.Picks(ctx, repository.Query{UserID: "alice", EventID: "e1"})

			Convey("Then the intersection returns", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].PickID, ShouldEqual, "p1")
				So(got[1].PickID, ShouldEqual, "p4")
			})
		})

		Convey("When querying everything", func() {
			got, err := store.Picks(ctx, repository.Query{})

			Convey("Then insertion order is preserved", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 4)
				for i, p := range got {
					So(p.PickID, ShouldEqual, fmt.Sprintf("p%d", i+1))
				}
			})
		})

		Convey("When querying with a time lower bound", func() {
			got, err := store.Picks(ctx, repository.Query{UserID: "alice", Since: now.AddDate(0, 0, -7)})

			Convey("Then older picks are excluded", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].PickID, ShouldEqual, "p3")
			})
		})

		Convey("When querying a user with no picks", func() {
			got, err := store.Picks(ctx, repository.Query{UserID: "nobody"})

			Convey("Then the result is empty", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 0)
			})
		})
	})
}

func TestMemStore_Pick(t *testing.T) {
	Convey("Given a store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)

		Convey("When looking up a missing id", func() {
			_, err := store.Pick(ctx, "nope")

			Convey("Then it reports not found", func() {
				So(errors.Is(err, repository.ErrPickNotFound), ShouldBeTrue)
			})
		})
	})
}
