package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/moodlog/internal/cache"
	"github.com/moodlog/internal/config"
	"github.com/moodlog/internal/logging"
	"github.com/moodlog/internal/remote"
	"github.com/moodlog/internal/scoring"
	"github.com/moodlog/internal/service"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain 返回进程退出码，保证 defer 的清理（日志文件、信号监听）在退出前执行。
func realMain(args []string, stdout, stderr io.Writer) int {
	flags := config.ClientFlags("moodlog")
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.LoadClient(flags)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err == nil {
		_, closer := logging.Setup(logging.Options{Service: "moodlog-cli", File: cfg.LogFile})
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, flags.Args(), stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
			fmt.Fprint(stderr, usage)
			return 2
		}
		fmt.Fprintf(stderr, "moodlog: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.ClientConfig, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Printf("[config] %v, using UTC", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	kv, err := cache.OpenBoltCache(cfg.CachePath, nil)
	if err != nil {
		return err
	}
	defer kv.Close()

	client := remote.NewHTTPClient(cfg.Server)
	userID, err := login(ctx, client, kv, cfg)
	if err != nil {
		return err
	}

	store := service.NewRecordStore(userID, client, kv, service.WithCalendar(scoring.NewCalendar(loc)))
	// sync 自己负责加载
	if args[0] != "sync" {
		if err := store.Load(ctx); err != nil {
			return err
		}
	}
	return runCommand(ctx, store, args, out)
}

// login 登录服务端；服务端不可达时沿用上次登录的用户 ID，以便离线查看缓存数据。
func login(ctx context.Context, client *remote.HTTPClient, kv cache.Cache, cfg config.ClientConfig) (string, error) {
	if cfg.Username == "" {
		return "", fmt.Errorf("%w: username is not configured", remote.ErrUnauthorized)
	}
	key := "cli:user:" + cfg.Server + ":" + cfg.Username

	userID, err := client.Login(ctx, cfg.Username, cfg.Password)
	if err == nil {
		if err := kv.Set(ctx, key, userID); err != nil {
			log.Printf("[cache] remember user %s failed: %v", cfg.Username, err)
		}
		return userID, nil
	}
	if !errors.Is(err, remote.ErrUnavailable) {
		return "", err
	}

	cached, ok, cacheErr := kv.Get(ctx, key)
	if cacheErr != nil || !ok {
		return "", err
	}
	log.Printf("[sync] server unreachable, continuing offline as %s", cfg.Username)
	return cached, nil
}
