package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/scoring"
	"github.com/moodlog/internal/service"
)

var errUsage = errors.New("usage")

const usage = `usage: moodlog [flags] <command>

commands:
  sync                                      reload records from the server
  score [week|month|year]                   wellbeing score for a trailing period
  streak                                    completion and tough-day streaks
  today                                     today's slots and daily score
  checkin <slot> <mood> <stress> <energy> [note...]
  journal [type|all]                        list journal entries
  heavy-card [shown|dismissed]              check or acknowledge the supportive prompt
  activity [type|all]                       list breathing/meditation/exercise sessions
  activity <type> <seconds> [mood stress]   record a finished session
`

// runCommand 在已加载的 RecordStore 上执行单个子命令
func runCommand(ctx context.Context, store *service.RecordStore, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "sync":
		return cmdSync(ctx, store, out)
	case "score":
		return cmdScore(store, rest, out)
	case "streak":
		fmt.Fprintf(out, "completion streak: %d day(s)\n", store.GetStreak())
		fmt.Fprintf(out, "tough streak:      %d day(s)\n", store.GetToughStreak())
		return nil
	case "today":
		return cmdToday(store, out)
	case "checkin":
		return cmdCheckIn(ctx, store, rest, out)
	case "journal":
		return cmdJournal(store, rest, out)
	case "heavy-card":
		return cmdHeavyCard(ctx, store, rest, out)
	case "activity":
		return cmdActivity(ctx, store, rest, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func cmdSync(ctx context.Context, store *service.RecordStore, out io.Writer) error {
	if err := store.Load(ctx); err != nil {
		return err
	}
	state := store.GetState()
	fmt.Fprintf(out, "%d check-ins, %d journal entries\n", len(state.CheckIns), len(state.JournalEntries))
	if !state.Synced {
		fmt.Fprintln(out, "server unreachable, showing cached data")
		return nil
	}
	fmt.Fprintf(out, "synced at %s\n", state.LastSyncedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func cmdScore(store *service.RecordStore, args []string, out io.Writer) error {
	raw := string(scoring.PeriodWeek)
	if len(args) > 0 {
		raw = args[0]
	}
	period, err := scoring.ParsePeriod(raw)
	if err != nil {
		return err
	}
	score, err := store.GetWellbeingScoreForPeriod(period)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s score: %d/100\n", period, score)
	return nil
}

func cmdToday(store *service.RecordStore, out io.Writer) error {
	agg := store.TodayAggregate()
	fmt.Fprintf(out, "%s  score %d  (%d/%d slots)\n", agg.Date, agg.Score, agg.SlotsCount, model.SlotsPerDay)
	for _, slot := range model.Slots {
		record, ok := store.CheckInBySlot(slot)
		if !ok {
			fmt.Fprintf(out, "  [ ] %-9s\n", slot)
			continue
		}
		line := fmt.Sprintf("  [x] %-9s mood %d  stress %d  energy %d", slot, record.Mood, record.Stress, record.Energy)
		if record.Note != "" {
			line += "  " + record.Note
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func cmdCheckIn(ctx context.Context, store *service.RecordStore, args []string, out io.Writer) error {
	if len(args) < 4 {
		return fmt.Errorf("%w: checkin <slot> <mood> <stress> <energy> [note...]", errUsage)
	}
	slot, err := model.ParseSlot(args[0])
	if err != nil {
		return err
	}
	values := make([]int, 3)
	for i, raw := range args[1:4] {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", model.ErrInvalidValue, raw)
		}
		values[i] = v
	}

	record, err := store.AddCheckIn(ctx, model.CheckInInput{
		Slot:   slot,
		Mood:   values[0],
		Stress: values[1],
		Energy: values[2],
		Note:   strings.Join(args[4:], " "),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "saved %s check-in %s, today's score is now %d\n", record.Slot, record.ID, store.GetDailyScore())
	return nil
}

func cmdJournal(store *service.RecordStore, args []string, out io.Writer) error {
	filter := "all"
	if len(args) > 0 {
		filter = args[0]
	}
	entries, err := store.JournalEntriesByType(filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "no journal entries")
		return nil
	}
	for _, entry := range entries {
		lock := ""
		if !store.CanEditEntry(entry) {
			lock = " (locked)"
		}
		fmt.Fprintf(out, "%s  %-10s %s  mood %d%s\n", entry.Date, entry.Type, entry.Title, entry.Mood, lock)
	}
	return nil
}

func cmdHeavyCard(ctx context.Context, store *service.RecordStore, args []string, out io.Writer) error {
	if len(args) == 0 {
		if store.ShouldShowHeavyCard() {
			fmt.Fprintf(out, "the last %d days have been tough. be gentle with yourself.\n", store.GetToughStreak())
			return nil
		}
		fmt.Fprintln(out, "nothing to show")
		return nil
	}

	switch args[0] {
	case "shown":
		store.MarkHeavyCardShown(ctx)
	case "dismissed":
		store.MarkHeavyCardDismissed(ctx)
	default:
		return fmt.Errorf("%w: heavy-card [shown|dismissed]", errUsage)
	}
	fmt.Fprintf(out, "marked %s, prompt paused for 7 days\n", args[0])
	return nil
}

func cmdActivity(ctx context.Context, store *service.RecordStore, args []string, out io.Writer) error {
	if len(args) < 2 {
		filter := "all"
		if len(args) == 1 {
			filter = args[0]
		}
		sessions, err := store.ActivitySessions(filter)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "no activity sessions")
			return nil
		}
		for _, session := range sessions {
			status := "completed"
			if !session.Completed {
				status = "stopped early"
			}
			fmt.Fprintf(out, "%s  %-10s %4ds  %s\n", session.Date, session.Type, session.Duration, status)
		}
		return nil
	}

	if len(args) != 2 && len(args) != 4 {
		return fmt.Errorf("%w: activity <type> <seconds> [mood stress]", errUsage)
	}
	numbers := make([]int, 0, 3)
	for _, raw := range args[1:] {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", model.ErrInvalidValue, raw)
		}
		numbers = append(numbers, v)
	}

	in := model.ActivityInput{Type: model.ActivityType(args[0]), Duration: numbers[0], Completed: true}
	if len(numbers) == 3 {
		in.PostMood, in.PostStress = &numbers[1], &numbers[2]
	}
	session, err := store.AddActivitySession(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "saved %s session %s (%ds)\n", session.Type, session.ID, session.Duration)
	return nil
}
