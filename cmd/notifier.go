/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/quillnotes/apiserver/config"
	"github.com/quillnotes/apiserver/internal/mq"
	"github.com/quillnotes/apiserver/internal/notify"
	"github.com/spf13/cobra"
)

// notifierCmd runs the welcome-email consumer. It drains the configured
// channel and hands each event to the delivery hook; the API server never
// waits on any of this.
var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Consume welcome-notification events from the mail queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		backend, err := buildQueueBackend(cmd.Context(), cfg.Mail)
		if err != nil {
			return err
		}
		defer backend.Close()

		log.Printf("notifier: consuming %q via %s", cfg.Mail.Channel, cfg.Mail.Backend)
		return backend.Subscribe(cmd.Context(), cfg.Mail.Channel, deliverWelcome)
	},
}

func init() {
	rootCmd.AddCommand(notifierCmd)
}

func buildQueueBackend(ctx context.Context, cfg config.MailConfig) (mq.Backend, error) {
	switch cfg.Backend {
	case config.MailBackendRabbitMQ:
		return mq.NewRabbitBackend(cfg.RabbitMQ)
	case config.MailBackendPubSub:
		return mq.NewPubSubBackend(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("mail backend %q has no queue to consume; set MAIL_BACKEND to rabbitmq or pubsub", cfg.Backend)
	}
}

// deliverWelcome is where a real mail vendor integration would go. The
// stock build logs the event and acks it.
func deliverWelcome(ctx context.Context, msg mq.Message) error {
	var event notify.WelcomeEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		// Unparseable events would redeliver forever; log and drop.
		fmt.Fprintf(os.Stderr, "notifier: dropping malformed event %s: %v\n", msg.ID, err)
		return nil
	}
	log.Printf("notifier: welcome %s (%s)", event.Email, event.DisplayName)
	return nil
}
