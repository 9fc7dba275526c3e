package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"safe-authenticator/internal/model"
	"safe-authenticator/pkg/address"
	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/utils/units"

	"github.com/spf13/cobra"
)

func newLimitsCmd(s *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "列出转账额度",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			comps, err := s.components(ctx, false)
			if err != nil {
				return err
			}
			safeAddr, err := s.safe(ctx, comps)
			if err != nil {
				return err
			}

			limits, err := comps.Limits.LoadLimits(ctx, safeAddr)
			if err != nil {
				return err
			}
			if len(limits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "没有可用的转账额度")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TOKEN\tSYMBOL\tAMOUNT\tSPENT\tAVAILABLE\tRESET\tLAST_SPENT\tNONCE")
			for _, l := range limits {
				info, err := comps.Tokens.TokenInfo(ctx, l.Token)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					l.Token.Hex(), info.Symbol,
					units.Format(l.Amount, info.Decimals),
					units.Format(l.Spent, info.Decimals),
					units.Format(l.Available(), info.Decimals),
					resetPeriod(l.ResetPeriod), lastSpent(l), l.Nonce)
			}
			return w.Flush()
		},
	}
}

func resetPeriod(d time.Duration) string {
	if d == 0 {
		return "once"
	}
	return d.String()
}

func lastSpent(l model.Limit) string {
	if l.LastSpent.IsZero() {
		return "-"
	}
	return l.LastSpent.UTC().Format(time.RFC3339)
}

func newTransferCmd(s *cliState) *cobra.Command {
	var tokenHex, toHex, amountStr string
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "在转账额度内转账 (amount 以 token 单位表示)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			token, err := address.Parse(tokenHex)
			if err != nil {
				return err
			}
			to, err := address.Parse(toHex)
			if err != nil {
				return err
			}

			comps, err := s.components(ctx, false)
			if err != nil {
				return err
			}
			safeAddr, err := s.safe(ctx, comps)
			if err != nil {
				return err
			}

			limits, err := comps.Limits.LoadLimits(ctx, safeAddr)
			if err != nil {
				return err
			}
			var limit *model.Limit
			for i := range limits {
				if limits[i].Token == token {
					limit = &limits[i]
					break
				}
			}
			if limit == nil {
				return errno.ErrValidation.WithMessage("no transfer limit for token " + token.Hex())
			}

			info, err := comps.Tokens.TokenInfo(ctx, token)
			if err != nil {
				return err
			}
			amount, err := units.Parse(amountStr, info.Decimals)
			if err != nil {
				return err
			}
			if amount.Cmp(limit.Available()) > 0 {
				return errno.ErrValidation.WithMessage(fmt.Sprintf("amount exceeds available %s %s",
					units.Format(limit.Available(), info.Decimals), info.Symbol))
			}

			if err := comps.Limits.PerformTransfer(ctx, safeAddr, *limit, to, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ 已提交转账 %s %s -> %s\n", units.Format(amount, info.Decimals), info.Symbol, to.Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&tokenHex, "token", "0x0000000000000000000000000000000000000000", "token 地址 (零地址为 ETH)")
	cmd.Flags().StringVar(&toHex, "to", "", "收款地址")
	cmd.Flags().StringVar(&amountStr, "amount", "", "金额 (例如 1.5)")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
