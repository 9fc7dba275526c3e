package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"safe-authenticator/internal/bootstrap"
	"safe-authenticator/pkg/address"
	"safe-authenticator/pkg/config"
	"safe-authenticator/pkg/errno"
	"safe-authenticator/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// cliState 单次命令执行期间共享的配置与组件
type cliState struct {
	cfgFile string
	safeHex string

	cfg   config.Config
	comps *bootstrap.Components
	in    *bufio.Reader
}

// NewRootCmd 代表基础命令，没有子命令时打印帮助
func NewRootCmd() *cobra.Command {
	s := &cliState{}

	root := &cobra.Command{
		Use:   "safe-cli",
		Short: "Safe 多签钱包的设备签名工具",
		Long: `safe-cli 以本地助记词派生的设备密钥作为 Safe 多签钱包的一个 owner:
生成/导入加密助记词，查看链上 Safe 状态，确认待签交易，以及在转账额度内直接转账。`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(s.cfgFile)
			if err != nil {
				return err
			}
			s.cfg = cfg
			logger.Init(cfg.App.Env)
			s.in = bufio.NewReader(cmd.InOrStdin())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.comps != nil {
				s.comps.Close()
			}
			logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&s.cfgFile, "config", "", "配置文件 (默认 ./config.yaml)")
	root.PersistentFlags().StringVar(&s.safeHex, "safe", "", "Safe 地址 (默认使用 use 命令保存的地址)")

	root.AddCommand(
		newInitCmd(s),
		newAddressCmd(s),
		newUseCmd(s),
		newInfoCmd(s),
		newTxsCmd(s),
		newConfirmCmd(s),
		newLimitsCmd(s),
		newTransferCmd(s),
		newMnemonicCmd(s),
		newEventsCmd(s),
	)
	return root
}

// Execute 将所有子命令添加到根命令并执行
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		code, _ := errno.Decode(err)
		fmt.Fprintf(os.Stderr, "错误 [%d]: %v\n", code, err)
		os.Exit(1)
	}
}

// components 首次调用时装配，口令缺失时交互式读取
func (s *cliState) components(ctx context.Context, confirmPassphrase bool) (*bootstrap.Components, error) {
	if s.comps != nil {
		return s.comps, nil
	}
	if s.cfg.Wallet.Passphrase == "" {
		pw, err := promptPassphrase(confirmPassphrase)
		if err != nil {
			return nil, err
		}
		s.cfg.Wallet.Passphrase = pw
	}
	comps, err := bootstrap.New(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	s.comps = comps
	return comps, nil
}

// safe --safe 优先，其次是已保存的地址
func (s *cliState) safe(ctx context.Context, comps *bootstrap.Components) (common.Address, error) {
	if s.safeHex != "" {
		return address.Parse(s.safeHex)
	}
	return bootstrap.SafeAddress(ctx, comps.Store)
}

func (s *cliState) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *cliState) confirm(out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s (y/N): ", question)
	answer, err := s.readLine()
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func promptPassphrase(confirm bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errno.ErrValidation.WithMessage("wallet.passphrase is not set (use WALLET_PASSPHRASE)")
	}

	fmt.Fprint(os.Stderr, "输入口令: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("读取口令失败: %w", err)
	}
	if confirm {
		fmt.Fprint(os.Stderr, "确认口令: ")
		again, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("读取口令失败: %w", err)
		}
		if string(again) != string(pw) {
			return "", errno.ErrValidation.WithMessage("两次输入的口令不一致")
		}
	}
	if len(pw) < 6 {
		return "", errno.ErrValidation.WithMessage("口令长度至少需要 6 位")
	}
	return string(pw), nil
}
