package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"hostel-service/internal/crud"
	"hostel-service/internal/events"
	"hostel-service/internal/logger"

	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var (
		backend string
		natsURL string
		prefix  string
		brokers []string
		topic   string
		group   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print record changes as the service publishes them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logger.Options{Output: cmd.ErrOrStderr()})

			var (
				sub events.Subscriber
				err error
			)
			switch backend {
			case "nats":
				sub, err = events.NewNATSSubscriber(natsURL, prefix, log)
			case "kafka":
				sub, err = events.NewKafkaSubscriber(brokers, topic, group, log)
			default:
				return fmt.Errorf("unknown backend %q, want nats or kafka", backend)
			}
			if err != nil {
				return err
			}
			defer sub.Close()

			err = sub.Start(cmd.Context(), printChange(cmd.OutOrStdout()))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "nats", "event backend: nats or kafka")
	cmd.Flags().StringVar(&natsURL, "nats-url", "nats://localhost:4222", "NATS server URL")
	cmd.Flags().StringVar(&prefix, "subject-prefix", "hostel", "NATS subject prefix")
	cmd.Flags().StringSliceVar(&brokers, "brokers", []string{"localhost:9092"}, "Kafka brokers")
	cmd.Flags().StringVar(&topic, "topic", "hostel.changes", "Kafka topic")
	cmd.Flags().StringVar(&group, "group", "hostelctl", "Kafka consumer group")
	return cmd
}

func printChange(w io.Writer) events.HandlerFunc {
	return func(_ context.Context, c crud.Change) error {
		_, err := fmt.Fprintf(w, "%s  %-6s  %-11s  %s\n", c.At.Local().Format(time.DateTime), c.Op, c.Entity, c.ID)
		return err
	}
}
