package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/moodlog/internal/config"
	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/model"
	"github.com/moodlog/internal/remote"
	"github.com/moodlog/internal/scoring"
)

const seedDays = 14

// 测试数据生成器
func main() {
	reset := pflag.Bool("reset", false, "清空已有打卡与日记后重新生成")
	pflag.Parse()

	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Printf("[seed] %v", err)
	}

	fmt.Println("开始生成测试数据...")

	calendar := scoring.NewCalendar(loc)
	records := remote.NewDBStore(db.DB, calendar)
	users, err := createTestUsers()
	if err != nil {
		log.Fatal("创建测试用户失败:", err)
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now().In(calendar.Location())
	for _, user := range users {
		userID := strconv.FormatUint(uint64(user.ID), 10)
		if *reset {
			if err := records.DeleteUserData(context.Background(), userID); err != nil {
				log.Fatalf("清空用户 %s 的数据失败: %v", user.Username, err)
			}
		} else if hasCheckIns(userID) {
			fmt.Printf("用户 %s 已有打卡，跳过\n", user.Username)
			continue
		}
		checkIns, entries, err := seedUser(context.Background(), records, userID, now, rng)
		if err != nil {
			log.Fatalf("生成用户 %s 的数据失败: %v", user.Username, err)
		}
		fmt.Printf("✅ %s: %d 条打卡, %d 篇日记\n", user.Username, checkIns, entries)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin (密码: admin123), testuser (密码: user123)")
}

// 创建测试用户
func createTestUsers() ([]*db.User, error) {
	accounts := []struct{ username, password string }{
		{"admin", "admin123"},
		{"testuser", "user123"},
	}
	users := make([]*db.User, 0, len(accounts))
	for _, account := range accounts {
		user, err := db.EnsureUserIn(db.DB, account.username, account.password)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func hasCheckIns(userID string) bool {
	var count int64
	db.DB.Model(&db.CheckIn{}).Where("user_id = ?", userID).Count(&count)
	return count > 0
}

var slotHours = map[model.Slot]int{
	model.SlotMorning:   8,
	model.SlotAfternoon: 13,
	model.SlotEvening:   19,
	model.SlotNight:     22,
}

var journalSeeds = []model.JournalInput{
	{Type: model.JournalGratitude, Title: "小确幸", Content: "早上的咖啡很好喝，**阳光**也不错。", Mood: 4, Tags: []string{"咖啡", "早晨"}},
	{Type: model.JournalNegative, Title: "会议不顺", Content: "方案被否了。", Mood: 2, Tags: []string{"工作"},
		Meta: &model.JournalMeta{Event: "方案评审没通过", Thought: "我是不是*不够好*", Reframe: "评审意见让方案更完整"}},
	{Type: model.JournalPositive, Title: "跑完五公里", Content: "配速比上周快了 10 秒。", Mood: 5, Tags: []string{"运动"}},
	{Type: model.JournalReflection, Title: "这周的节奏", Content: "- 睡眠还行\n- 压力偏高\n- 需要多出门走走", Mood: 3},
	{Type: model.JournalFree, Title: "随手记", Content: "下雨天适合读书。", Mood: 3, Tags: []string{"阅读"}},
}

// seedUser 为用户生成最近 seedDays 天的打卡与日记。
// 前半段情绪平稳，最后三天偏低，方便在界面上看到关怀提示。
func seedUser(ctx context.Context, records *remote.DBStore, userID string, now time.Time, rng *rand.Rand) (int, int, error) {
	defer records.SetClock(nil)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	checkIns, entries := 0, 0
	for offset := seedDays - 1; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		tough := offset < 3

		for _, slot := range model.Slots {
			at := day.Add(time.Duration(slotHours[slot]) * time.Hour)
			if at.After(now) || (!tough && rng.Intn(5) == 0) {
				continue
			}
			records.SetClock(func() time.Time { return at })

			in := model.CheckInInput{Slot: slot, Mood: 3 + rng.Intn(3), Stress: 1 + rng.Intn(3), Energy: 3 + rng.Intn(3)}
			if tough {
				in = model.CheckInInput{Slot: slot, Mood: 1 + rng.Intn(2), Stress: 4 + rng.Intn(2), Energy: 1 + rng.Intn(2), Note: "有点累"}
			}
			if _, err := records.CreateCheckIn(ctx, userID, in); err != nil {
				return checkIns, entries, err
			}
			checkIns++
		}

		if offset%3 == 0 {
			at := day.Add(21 * time.Hour)
			if at.After(now) {
				at = now
			}
			records.SetClock(func() time.Time { return at })
			if _, err := records.CreateJournalEntry(ctx, userID, journalSeeds[entries%len(journalSeeds)]); err != nil {
				return checkIns, entries, err
			}
			entries++
		}
	}
	return checkIns, entries, nil
}
