package cmd

import (
	"fmt"
	"text/tabwriter"

	"safe-authenticator/internal/model"
	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

func newInfoCmd(s *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "显示 Safe 的链上状态",
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

			info, err := comps.Chain.LoadSafeInfo(ctx, safeAddr)
			if err != nil {
				return err
			}
			device, err := comps.Vault.DeviceAddress(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Safe:        %s\n", info.Address.Hex())
			fmt.Fprintf(out, "Master copy: %s\n", info.MasterCopy.Hex())
			fmt.Fprintf(out, "Threshold:   %s / %d\n", info.Threshold, len(info.Owners))
			fmt.Fprintf(out, "Nonce:       %s\n", info.CurrentNonce)
			fmt.Fprintln(out, "Owners:")
			for _, o := range info.Owners {
				marker := " "
				if o == device {
					marker = "*"
				}
				fmt.Fprintf(out, "  %s %s\n", marker, o.Hex())
			}
			if !info.IsOwner(device) {
				fmt.Fprintf(out, "\n⚠️  设备地址 %s 不是该 Safe 的 owner\n", device.Hex())
			}
			return nil
		},
	}
}

func newTxsCmd(s *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "txs",
		Short: "列出交易及其状态 (PENDING / CONFIRMED / CANCELED / EXECUTED)",
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

			metas, err := comps.Transactions.LoadTransactions(ctx, safeAddr)
			if err != nil {
				return err
			}
			printTransactions(cmd, metas)
			return nil
		},
	}
}

func printTransactions(cmd *cobra.Command, metas []model.TransactionMeta) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NONCE\tSTATE\tTO\tVALUE\tOP\tCONFIRMATIONS\tSAFE_TX_HASH")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			m.ExecInfo.Nonce, m.State, m.Tx.To.Hex(), m.Tx.Value, m.Tx.Operation, len(m.Confirmations), m.Hash.Hex())
	}
	_ = w.Flush()
}

func newConfirmCmd(s *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <safe-tx-hash>",
		Short: "用设备密钥确认一笔待签交易",
		Long:  `重新计算交易哈希，与后端返回的 safeTxHash 一致时才签名并提交确认。`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			raw, err := hexutil.Decode(args[0])
			if err != nil || len(raw) != common.HashLength {
				return errno.ErrValidation.WithMessage(fmt.Sprintf("invalid safe tx hash %q", args[0]))
			}
			hash := common.BytesToHash(raw)

			comps, err := s.components(ctx, false)
			if err != nil {
				return err
			}
			safeAddr, err := s.safe(ctx, comps)
			if err != nil {
				return err
			}

			metas, err := comps.Transactions.LoadTransactions(ctx, safeAddr)
			if err != nil {
				return err
			}
			var target *model.TransactionMeta
			for i := range metas {
				if metas[i].Hash == hash {
					target = &metas[i]
					break
				}
			}
			if target == nil {
				return errno.ErrValidation.WithMessage("unknown transaction " + hash.Hex())
			}
			switch target.State {
			case model.StateExecuted, model.StateCanceled:
				return errno.ErrValidation.WithMessage(fmt.Sprintf("transaction is %s", target.State))
			case model.StateConfirmed:
				fmt.Fprintln(cmd.OutOrStdout(), "设备已确认过该交易，重新提交")
			}

			conf, err := comps.Engine.ConfirmServiceTx(ctx, safeAddr, target.ServiceSafeTx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✅ 已提交确认\n")
			fmt.Fprintf(out, "Sender:    %s\n", conf.Sender.Hex())
			fmt.Fprintf(out, "Signature: %s\n", conf.Signature.Prefixed())
			return nil
		},
	}
}
