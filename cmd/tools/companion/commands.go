package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	chatmodel "github.com/zhouzirui/calm-companion/backend/internal/model/chat"
	"github.com/zhouzirui/calm-companion/backend/internal/service/account"
	"github.com/zhouzirui/calm-companion/backend/internal/service/chat"
	"github.com/zhouzirui/calm-companion/backend/internal/service/journal"
	"github.com/zhouzirui/calm-companion/backend/internal/service/profile"
	"github.com/zhouzirui/calm-companion/backend/internal/service/response"
	"github.com/zhouzirui/calm-companion/backend/internal/service/schedule"
)

// --- chat ---

func newChatCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open an interactive chat session",
		Long: `Open an interactive chat session. Each line you type is one message;
type /quit or press Ctrl-D to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			selector, err := response.NewSelector(ctx, c.picker)
			if err != nil {
				return err
			}
			svc := chat.NewService(profile.NewStore(c.store), selector, chat.Options{
				Scheduler: c.scheduler(),
				Picker:    c.picker,
			})

			session, welcome, err := svc.Mount(ctx)
			if err != nil {
				return fmt.Errorf("opening chat: %w", err)
			}
			events, unsubscribe, err := svc.Subscribe(session.ID)
			if err != nil {
				return err
			}
			defer unsubscribe()
			defer svc.Close(session.ID)

			printSpeaker(out, "companion", welcome.Content)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "/quit" || line == "/exit" {
					break
				}

				msg, err := svc.Submit(ctx, session.ID, line)
				if err != nil {
					printWarning("%v", err)
					continue
				}
				if msg == nil {
					continue
				}

				reply, err := waitForReply(ctx, events)
				if err != nil {
					return err
				}
				printSpeaker(out, "companion", reply.Content)
			}
			return scanner.Err()
		},
	}
}

// waitForReply 跳过用户自己的回显，直到陪伴者的回复到达
func waitForReply(ctx context.Context, events <-chan chatmodel.Message) (chatmodel.Message, error) {
	for {
		select {
		case <-ctx.Done():
			return chatmodel.Message{}, ctx.Err()
		case msg, ok := <-events:
			if !ok {
				return chatmodel.Message{}, errors.New("chat session closed")
			}
			if msg.Sender == chatmodel.SenderCompanion {
				return msg, nil
			}
		}
	}
}

// --- journal ---

// firedScheduler reports each scheduled callback once it has run.
type firedScheduler struct {
	inner schedule.Scheduler
	fired chan struct{}
}

func (f *firedScheduler) After(d time.Duration, fn func()) {
	f.inner.After(d, func() {
		fn()
		f.fired <- struct{}{}
	})
}

func newJournalCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "journal [text]",
		Short: "Write a journal entry and wait for reflective feedback",
		Long: `Write a journal entry and wait for reflective feedback.

Examples:
  companion journal "It was a really difficult day at work"
  cat today.txt | companion journal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading entry: %w", err)
				}
				text = string(data)
			}

			sched := &firedScheduler{inner: c.scheduler(), fired: make(chan struct{}, 1)}
			svc := journal.NewService(journal.Options{Scheduler: sched, Picker: c.picker})

			entry, err := svc.Save(ctx, text)
			if err != nil {
				return err
			}
			if entry == nil {
				return errors.New("entry is blank, nothing saved")
			}
			printSuccess("Saved entry %s", entry.ID)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-sched.fired:
			}

			feedback, _ := svc.LatestFeedback()
			printSpeaker(cmd.OutOrStdout(), "companion", feedback)
			return nil
		},
	}
}

// --- profile ---

func newProfileCmd(c *cli) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect or reset the stored user profile",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current profile as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := profile.NewStore(c.store).Load(cmd.Context())
			data, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding profile: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget everything the companion has learned",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := profile.NewStore(c.store).Reset(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Profile reset")
			return nil
		},
	}

	profileCmd.AddCommand(showCmd, resetCmd)
	return profileCmd
}

// --- account ---

func newSignUpCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create the demo account (no password, stored locally)",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")

			svc := account.NewService(c.store, profile.NewStore(c.store))
			user, err := svc.SignUp(cmd.Context(), name, email)
			if err != nil {
				return err
			}
			printSuccess("Signed up as %s <%s>", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "email address")
	return cmd
}

func newSignOutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Remove the demo account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := account.NewService(c.store, nil).SignOut(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Signed out")
			return nil
		},
	}
}

func newWhoAmICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in demo account",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := account.NewService(c.store, nil).Current(cmd.Context())
			if errors.Is(err, account.ErrNotSignedIn) {
				printWarning("Not signed in")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}
