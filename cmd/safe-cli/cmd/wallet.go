package cmd

import (
	"fmt"
	"strings"

	"safe-authenticator/internal/bootstrap"
	"safe-authenticator/internal/vault"
	"safe-authenticator/pkg/address"

	"github.com/spf13/cobra"
)

func newInitCmd(s *cliState) *cobra.Command {
	var doImport bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "初始化设备密钥 (生成或导入助记词并加密保存)",
		Long: `首次运行时生成 BIP-39 助记词，使用应用口令加密后保存。
--import 从标准输入读取一行已有助记词代替生成。已初始化时不会覆盖。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			comps, err := s.components(ctx, true)
			if err != nil {
				return err
			}

			if doImport {
				fmt.Fprint(out, "输入助记词: ")
				mnemonic, err := s.readLine()
				if err != nil {
					return err
				}
				if err := comps.Vault.Import(ctx, strings.Join(strings.Fields(mnemonic), " ")); err != nil {
					return err
				}
				fmt.Fprintln(out, "\n✅ 助记词已导入")
			} else {
				initialized, err := comps.Vault.Initialized(ctx)
				if err != nil {
					return err
				}
				if err := comps.Vault.EnsureInitialized(ctx); err != nil {
					return err
				}
				if initialized {
					fmt.Fprintln(out, "已初始化，保留现有助记词")
				} else {
					fmt.Fprintln(out, "✅ 已生成新的助记词 (可用 mnemonic 命令备份)")
				}
			}

			addr, err := comps.Vault.DeviceAddress(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "设备地址: %s\n", addr.Hex())
			return nil
		},
	}
	cmd.Flags().BoolVar(&doImport, "import", false, "从标准输入导入已有助记词")
	return cmd
}

func newAddressCmd(s *cliState) *cobra.Command {
	var index uint32
	cmd := &cobra.Command{
		Use:   "address",
		Short: "显示设备地址 (m/44'/60'/0'/0/index)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			comps, err := s.components(ctx, false)
			if err != nil {
				return err
			}

			if index == vault.DeviceKeyIndex {
				addr, err := comps.Vault.DeviceAddress(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), addr.Hex())
				return nil
			}

			kp, err := comps.Vault.Derive(ctx, index)
			if err != nil {
				return err
			}
			defer kp.Wipe()
			fmt.Fprintln(cmd.OutOrStdout(), kp.Address.Hex())
			return nil
		},
	}
	cmd.Flags().Uint32Var(&index, "index", vault.DeviceKeyIndex, "派生索引")
	return cmd
}

func newUseCmd(s *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "use <safe-address>",
		Short: "保存默认操作的 Safe 地址",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			addr, err := address.Parse(args[0])
			if err != nil {
				return err
			}
			comps, err := s.components(ctx, false)
			if err != nil {
				return err
			}
			if err := bootstrap.SetSafeAddress(ctx, comps.Store, addr); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "当前 Safe: %s\n", addr.Hex())
			return nil
		},
	}
}

func newMnemonicCmd(s *cliState) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "mnemonic",
		Short: "显示解密后的助记词",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			comps, err := s.components(ctx, false)
			if err != nil {
				return err
			}
			if !yes && !s.confirm(out, "助记词将以明文显示，确定继续?") {
				fmt.Fprintln(out, "已取消")
				return nil
			}

			mnemonic, err := comps.Vault.DecryptMnemonic(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "---------------------------------------------------")
			fmt.Fprintln(out, mnemonic)
			fmt.Fprintln(out, "---------------------------------------------------")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "跳过确认")
	return cmd
}
