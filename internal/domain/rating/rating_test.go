package rating_test

import (
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/huddleup/pickem/internal/domain/model"
	"github.com/huddleup/pickem/internal/domain/rating"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

func makeRecords(n int, outcome model.Outcome, conf model.Confidence, at time.Time) []model.PickRecord {
	out := make([]model.PickRecord, n)
	for i := range out {
		out[i] = model.PickRecord{
			PickID:      fmt.Sprintf("pick-%s-%s-%d", outcome, conf, i),
			UserID:      "user-1",
			EventID:     fmt.Sprintf("event-%d", i),
			Side:        model.SideHome,
			Confidence:  conf,
			Outcome:     outcome,
			SubmittedAt: at,
		}
	}
	return out
}

func TestCalculator_Calculate(t *testing.T) {
	Convey("Given a calculator with a fixed clock", t, func() {
		now := fixedNow()
		calc := rating.NewCalculator(rating.WithClock(func() time.Time { return now }))

		Convey("When a user has 12 correct and 3 incorrect medium picks from today", func() {
			records := append(
				makeRecords(12, model.OutcomeCorrect, model.ConfidenceMedium, now),
				makeRecords(3, model.OutcomeIncorrect, model.ConfidenceMedium, now)...,
			)
			stats := calc.Calculate("user-1", records)

			Convey("Then the counts partition correctly", func() {
				So(stats.CorrectCount, ShouldEqual, 12)
				So(stats.IncorrectCount, ShouldEqual, 3)
				So(stats.PendingCount, ShouldEqual, 0)
				So(stats.TotalCount, ShouldEqual, 15)
				So(stats.DecidedCount(), ShouldEqual, 15)
			})

			Convey("And the derived signals match the formula inputs", func() {
				// (12*1.0 + 3*-0.5) / 15 = 0.7
				So(stats.ConfidenceImpact, ShouldAlmostEqual, 0.7, 0.0001)
				So(stats.WinRate(), ShouldAlmostEqual, 80.0, 0.0001)
				So(stats.DaysSinceLastPick, ShouldEqual, 0)
			})

			Convey("And the rating comes out at 81", func() {
				// round((0.8*70 + 15/20*20 - 0) * 1.14) = round(80.94)
				So(stats.Rating, ShouldEqual, 81)
			})
		})

		Convey("When a user has no records at all", func() {
			stats := calc.Calculate("user-1", nil)

			Convey("Then the no-activity sentinel and floor apply", func() {
				So(stats.DaysSinceLastPick, ShouldEqual, rating.NoPickDays)
				So(stats.LastPickAt, ShouldBeNil)
				So(stats.Rating, ShouldEqual, 0)
				So(stats.WinRate(), ShouldEqual, 0)
			})
		})

		Convey("When a strong user would exceed the maximum", func() {
			records := makeRecords(25, model.OutcomeCorrect, model.ConfidenceVeryHigh, now)
			stats := calc.Calculate("user-1", records)

			Convey("Then the rating is clamped to 100", func() {
				// (70 + 20) * 1.24 = 111.6 before clamping
				So(stats.Rating, ShouldEqual, 100)
			})
		})

		Convey("When every pick is wrong at high confidence", func() {
			records := makeRecords(10, model.OutcomeIncorrect, model.ConfidenceHigh, now)
			stats := calc.Calculate("user-1", records)

			Convey("Then only dampened participation remains", func() {
				// (0 + 10) * (1 - 1.0*0.2) = 8
				So(stats.ConfidenceImpact, ShouldAlmostEqual, -1.0, 0.0001)
				So(stats.Rating, ShouldEqual, 8)
			})
		})

		Convey("When the last pick was a week ago", func() {
			records := makeRecords(10, model.OutcomeCorrect, model.ConfidenceMedium, now.AddDate(0, 0, -7))
			stats := calc.Calculate("user-1", records)

			Convey("Then the recency penalty scales linearly", func() {
				// (70 + 10 - 5) * 1.2 = 90
				So(stats.DaysSinceLastPick, ShouldEqual, 7)
				So(stats.Rating, ShouldEqual, 90)
			})
		})

		Convey("When the last pick was two months ago", func() {
			records := makeRecords(10, model.OutcomeCorrect, model.ConfidenceMedium, now.AddDate(0, 0, -60))
			stats := calc.Calculate("user-1", records)

			Convey("Then the recency penalty is capped", func() {
				// (70 + 10 - 10) * 1.2 = 84
				So(stats.DaysSinceLastPick, ShouldEqual, 60)
				So(stats.Rating, ShouldEqual, 84)
			})
		})

		Convey("When all picks are still pending", func() {
			records := makeRecords(5, model.OutcomePending, model.ConfidenceHigh, now)
			stats := calc.Calculate("user-1", records)

			Convey("Then only participation counts", func() {
				So(stats.PendingCount, ShouldEqual, 5)
				So(stats.DecidedCount(), ShouldEqual, 0)
				So(stats.ConfidenceImpact, ShouldEqual, 0)
				// 5/20*20 = 5 participation points, no accuracy signal
				So(stats.Rating, ShouldEqual, 5)
			})
		})

		Convey("When a record carries an unrecognized confidence label", func() {
			odd := makeRecords(10, model.OutcomeCorrect, model.Confidence("clutch"), now)
			med := makeRecords(10, model.OutcomeCorrect, model.ConfidenceMedium, now)

			Convey("Then it is weighted like medium", func() {
				So(calc.Calculate("user-1", odd).Rating, ShouldEqual, calc.Calculate("user-1", med).Rating)
			})
		})

		Convey("When accuracy improves with everything else fixed", func() {
			ratings := make([]int, 0, 11)
			for correct := 0; correct <= 10; correct++ {
				records := append(
					makeRecords(correct, model.OutcomeCorrect, model.ConfidenceMedium, now),
					makeRecords(10-correct, model.OutcomeIncorrect, model.ConfidenceMedium, now)...,
				)
				ratings = append(ratings, calc.Calculate("user-1", records).Rating)
			}

			Convey("Then the rating never decreases and stays in bounds", func() {
				for i := 1; i < len(ratings); i++ {
					So(ratings[i], ShouldBeGreaterThanOrEqualTo, ratings[i-1])
				}
				for _, r := range ratings {
					So(r, ShouldBeBetweenOrEqual, 0, 100)
				}
			})
		})

		Convey("When a pick is timestamped in the future", func() {
			records := makeRecords(3, model.OutcomeCorrect, model.ConfidenceLow, now.Add(2*time.Hour))
			stats := calc.Calculate("user-1", records)

			Convey("Then days since last pick is clamped at zero", func() {
				So(stats.DaysSinceLastPick, ShouldEqual, 0)
			})
		})
	})
}
