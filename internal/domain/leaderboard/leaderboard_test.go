package leaderboard_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/huddleup/pickem/internal/adapters/profile"
	"github.com/huddleup/pickem/internal/adapters/repository"
	"github.com/huddleup/pickem/internal/adapters/socialgraph"
	"github.com/huddleup/pickem/internal/domain/leaderboard"
	"github.com/huddleup/pickem/internal/domain/model"
	"github.com/huddleup/pickem/internal/domain/rating"
	"github.com/huddleup/pickem/internal/domain/social"
	"github.com/huddleup/pickem/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// pickSrc adapts the repository store to the builder's pick source.
type pickSrc struct {
	store *repository.MemStore
}

func (p *pickSrc) UserPicks(ctx context.Context, userID string, since time.Time) ([]model.PickRecord, error) {
	return p.store.Picks(ctx, repository.Query{UserID: userID, Since: since})
}

// profSrc adapts the profile store, mapping the not-found sentinel to ok.
type profSrc struct {
	store *profile.MemStore
}

func (p *profSrc) DisplayName(ctx context.Context, userID string) (string, bool, error) {
	name, err := p.store.DisplayName(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}

type fixture struct {
	picks    *repository.MemStore
	graph    *socialgraph.MemStore
	profiles *profile.MemStore
	builder  *leaderboard.Builder
}

func newFixture(ctx context.Context, opts ...leaderboard.Option) *fixture {
	f := &fixture{
		picks:    repository.NewMemStore(ctx),
		graph:    socialgraph.NewMemStore(ctx),
		profiles: profile.NewMemStore(ctx),
	}
	calc := rating.NewCalculator(rating.WithClock(func() time.Time { return testNow }))
	resolver := social.NewResolver(f.graph)
	f.builder = leaderboard.NewBuilder(
		&pickSrc{store: f.picks},
		f.graph,
		resolver,
		&profSrc{store: f.profiles},
		calc,
		opts...,
	)
	return f
}

// seedUser gives userID a profile and a decided pick history. Higher correct
// counts produce higher ratings, which the tests rely on for ordering.
func (f *fixture) seedUser(ctx context.Context, userID, name string, correct, incorrect int) {
	f.profiles.Set(ctx, userID, name)
	for i := 0; i < correct+incorrect; i++ {
		outcome := model.OutcomeCorrect
		if i >= correct {
			outcome = model.OutcomeIncorrect
		}
		_ = f.picks.RecordPick(ctx, model.PickRecord{
			PickID:      fmt.Sprintf("%s-p%d", userID, i),
			UserID:      userID,
			EventID:     fmt.Sprintf("e%d", i),
			Side:        model.SideHome,
			Confidence:  model.ConfidenceMedium,
			Outcome:     outcome,
			SubmittedAt: testNow,
		})
	}
}

func TestBuilder_BuildGroup(t *testing.T) {
	Convey("Given a group of members with pick histories", t, func() {
		ctx := context.Background()
		f := newFixture(ctx)

		f.seedUser(ctx, "alice", "Alice", 9, 1)
		f.seedUser(ctx, "bob", "Bob", 5, 5)
		f.seedUser(ctx, "carol", "Carol", 2, 8)
		for _, u := range []string{"alice", "bob", "carol"} {
			f.graph.AddGroupMember(ctx, "office-pool", u)
		}

		Convey("When the group leaderboard is built", func() {
			entries, err := f.builder.BuildGroup(ctx, "office-pool", time.Time{})

			Convey("Then members rank by rating, best first", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 3)
				So(entries[0].UserID, ShouldEqual, "alice")
				So(entries[1].UserID, ShouldEqual, "bob")
				So(entries[2].UserID, ShouldEqual, "carol")
				for i := 1; i < len(entries); i++ {
					So(entries[i].Rating, ShouldBeLessThanOrEqualTo, entries[i-1].Rating)
				}
			})

			Convey("And ranks are sequential from one", func() {
				for i, e := range entries {
					So(e.Rank, ShouldEqual, i+1)
				}
			})

			Convey("And group members always see real names", func() {
				So(entries[0].DisplayName, ShouldEqual, "Alice")
				for _, e := range entries {
					So(e.IsAnonymized, ShouldBeFalse)
					So(strings.HasPrefix(e.DisplayName, "User_"), ShouldBeFalse)
				}
			})

			Convey("And per-user aggregates carry through", func() {
				So(entries[0].TotalPicks, ShouldEqual, 10)
				So(entries[0].CorrectPicks, ShouldEqual, 9)
				So(entries[0].WinPercentage, ShouldEqual, 90)
				So(entries[0].LastPickAt, ShouldNotBeNil)
			})
		})

		Convey("When one member has no profile", func() {
			f.graph.AddGroupMember(ctx, "office-pool", "ghost")
			entries, err := f.builder.BuildGroup(ctx, "office-pool", time.Time{})

			Convey("Then that member is skipped, not failed", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 3)
				for _, e := range entries {
					So(e.UserID, ShouldNotEqual, "ghost")
				}
			})
		})

		Convey("When the group is empty or unknown", func() {
			entries, err := f.builder.BuildGroup(ctx, "no-such-group", time.Time{})

			Convey("Then the result is empty without error", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 0)
			})
		})

		Convey("When members share identical ratings", func() {
			g := newFixture(ctx)
			g.seedUser(ctx, "zed", "Zed", 4, 4)
			g.seedUser(ctx, "amy", "Amy", 4, 4)
			g.graph.AddGroupMember(ctx, "tied", "zed")
			g.graph.AddGroupMember(ctx, "tied", "amy")

			entries, err := g.builder.BuildGroup(ctx, "tied", time.Time{})

			Convey("Then ties break deterministically by user id", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].UserID, ShouldEqual, "amy")
				So(entries[1].UserID, ShouldEqual, "zed")
			})
		})
	})
}

func TestBuilder_BuildKnown(t *testing.T) {
	Convey("Given a viewer with a social circle", t, func() {
		ctx := context.Background()
		f := newFixture(ctx, leaderboard.WithKnownLimit(5))

		f.profiles.Set(ctx, "viewer", "Viewer")

		Convey("When the viewer shares a group with seven others", func() {
			f.graph.AddGroupMember(ctx, "big-pool", "viewer")
			for i := 0; i < 7; i++ {
				id := fmt.Sprintf("mate-%d", i)
				f.seedUser(ctx, id, fmt.Sprintf("Mate %d", i), 8-i, i)
				f.graph.AddGroupMember(ctx, "big-pool", id)
			}

			entries, err := f.builder.BuildKnown(ctx, "viewer", time.Time{})

			Convey("Then the board is capped at five entries", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 5)
			})

			Convey("And the viewer is never listed", func() {
				for _, e := range entries {
					So(e.UserID, ShouldNotEqual, "viewer")
				}
			})

			Convey("And entries stay sorted with ranks starting at one", func() {
				for i, e := range entries {
					So(e.Rank, ShouldEqual, i+1)
					if i > 0 {
						So(e.Rating, ShouldBeLessThanOrEqualTo, entries[i-1].Rating)
					}
				}
			})

			Convey("And groupmates show real names", func() {
				for _, e := range entries {
					So(e.IsAnonymized, ShouldBeFalse)
					So(strings.HasPrefix(e.DisplayName, "Mate "), ShouldBeTrue)
				}
			})
		})

		Convey("When the viewer only has a direct friend", func() {
			f.seedUser(ctx, "pal", "Pal", 6, 2)
			f.graph.AddFriend(ctx, "viewer", "pal")

			entries, err := f.builder.BuildKnown(ctx, "viewer", time.Time{})

			Convey("Then the friend appears by real name", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].UserID, ShouldEqual, "pal")
				So(entries[0].DisplayName, ShouldEqual, "Pal")
				So(entries[0].IsAnonymized, ShouldBeFalse)
			})
		})

		Convey("When the viewer has no groups and no friends", func() {
			entries, err := f.builder.BuildKnown(ctx, "loner", time.Time{})

			Convey("Then the board is empty rather than global", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldNotBeNil)
				So(entries, ShouldHaveLength, 0)
			})
		})

		Convey("When a candidate sits inside the window but their picks do not", func() {
			f.seedUser(ctx, "pal", "Pal", 6, 2)
			f.graph.AddFriend(ctx, "viewer", "pal")

			entries, err := f.builder.BuildKnown(ctx, "viewer", testNow.Add(time.Hour))

			Convey("Then they still appear with an empty-window rating", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].TotalPicks, ShouldEqual, 0)
				So(entries[0].Rating, ShouldEqual, 0)
			})
		})
	})
}
