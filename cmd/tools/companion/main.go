// Command companion is a terminal client for the CalmCompanion services.
// It works directly on the configured storage, so the profile it builds up is
// the same one the HTTP server reads.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/calm-companion/backend/internal/config"
	"github.com/zhouzirui/calm-companion/backend/internal/service/schedule"
	"github.com/zhouzirui/calm-companion/backend/internal/storage/kv"
)

var noColor bool

// cli 保存命令之间共享的配置与存储
type cli struct {
	cfg     *config.Config
	store   kv.Store
	picker  schedule.Picker
	noDelay bool
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	root := newRootCmd(c)
	err := root.ExecuteContext(ctx)
	if c.store != nil {
		c.store.Close()
	}
	if err != nil {
		printError("%v", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "companion",
		Short:         "Talk to your CalmCompanion from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")
	root.PersistentFlags().BoolVar(&c.noDelay, "no-delay", false, "reply immediately instead of simulating typing")

	root.AddCommand(
		newChatCmd(c),
		newJournalCmd(c),
		newProfileCmd(c),
		newSignUpCmd(c),
		newSignOutCmd(c),
		newWhoAmICmd(c),
	)
	return root
}

// setup 加载 .env 与配置并打开存储；测试中预先注入时跳过
func (c *cli) setup() error {
	if c.picker == nil {
		c.picker = schedule.NewRandPicker()
	}
	if c.store != nil {
		return nil
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] 无法加载 .env，改用系统环境变量: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	c.cfg = cfg

	store, err := kv.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	c.store = store
	return nil
}

func (c *cli) scheduler() schedule.Scheduler {
	if c.noDelay || (c.cfg != nil && c.cfg.Companion.DelayDisabled) {
		return schedule.Immediate{}
	}
	return schedule.TimerScheduler{}
}
