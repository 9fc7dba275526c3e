package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"safe-authenticator/internal/service/mq"
	"safe-authenticator/pkg/errno"

	"github.com/spf13/cobra"
)

func newEventsCmd(s *cliState) *cobra.Command {
	var kind, group string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "订阅服务端发布的确认 / 额度转账事件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var topic string
			switch kind {
			case "confirmation":
				topic = mq.TopicConfirmations
			case "limit_transfer":
				topic = mq.TopicLimitTransfers
			default:
				return errno.ErrValidation.WithMessage(fmt.Sprintf("unknown event kind %q", kind))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			comps, err := s.components(ctx, false)
			if err != nil {
				return err
			}
			host, _ := os.Hostname()
			consumer, err := mq.NewConsumer(s.cfg, comps.Redis, group, "safe-cli-"+host)
			if err != nil {
				return err
			}
			defer consumer.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "监听 %s (Ctrl+C 退出)\n", topic)
			return consumer.Subscribe(ctx, topic, func(msg *mq.Message) error {
				fmt.Fprintf(out, "[%s] %s\n", msg.ID, msg.Payload)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "confirmation", "事件类型: confirmation | limit_transfer")
	cmd.Flags().StringVar(&group, "group", "safe-cli", "消费者组")
	return cmd
}
