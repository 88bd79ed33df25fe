package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuelElias1999/CuyFI/config"
	"github.com/ManuelElias1999/CuyFI/domain"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run scripted scenarios against an in-process hub",
	}
	cmd.AddCommand(newRoundtripCmd(), newPendingCmd())
	return cmd
}

func demoNode() (*node, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if len(cfg.Routes) == 0 {
		cfg.Routes = []config.Route{{ChainID: cfg.HubChainID + 1, Fee: 100}}
	}
	return buildNode(cfg)
}

func newRoundtripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip",
		Short: "Spoke deposit, capital deployment, yield reconciliation, exit preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := demoNode()
			if err != nil {
				return err
			}
			defer n.Close()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			route, err := n.firstRoute()
			if err != nil {
				return err
			}
			spoke := domain.ChainID(route.ChainID)
			agent := domain.Address(n.cfg.Agent)

			guid, err := n.bridge.InjectDeposit(ctx, spoke, "alice", 1_000_000, domain.DepositInstruction{
				Return: domain.SendParams{DstChain: spoke, Recipient: "alice"},
				MinFee: route.Fee,
			})
			if err != nil {
				return err
			}
			rec, err := n.composer.Settlement(guid)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "inbound deposit %s settled: %s, %d shares\n", guid, rec.Status, rec.Shares)

			id, err := n.executor.DeployToChain(ctx, agent, spoke, "spoke-vault", 600_000, route.Fee)
			if err != nil {
				return err
			}
			if err := n.executor.UpdateDeploymentAmount(agent, id, 660_000); err != nil {
				return err
			}
			total, err := n.vault.TotalAssets()
			if err != nil {
				return err
			}
			net, err := n.vault.PreviewRedeem(rec.Shares)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "deployment %s reconciled to 660000; totalAssets=%d\n", id, total)
			fmt.Fprintf(out, "redeeming %d shares would pay %d %s net of fees\n", rec.Shares, net, n.cfg.AssetTicker)
			return nil
		},
	}
}

func newPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Park an underfunded deposit and finalize it",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := demoNode()
			if err != nil {
				return err
			}
			defer n.Close()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			route, err := n.firstRoute()
			if err != nil {
				return err
			}
			spoke := domain.ChainID(route.ChainID)

			guid, err := n.bridge.InjectDeposit(ctx, spoke, "alice", 250_000, domain.DepositInstruction{
				Return: domain.SendParams{DstChain: spoke, Recipient: "alice"},
				MinFee: 0,
			})
			if err != nil {
				return err
			}
			rec, err := n.composer.Settlement(guid)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "settlement %s parked: status=%s shares=%d pending=%d\n",
				guid, rec.Status, rec.Shares, n.composer.PendingCount())

			fee, err := n.composer.QuoteFinalize(guid)
			if err != nil {
				return err
			}
			if err := n.composer.FinalizeDeposit(ctx, guid, fee); err != nil {
				return err
			}
			fmt.Fprintf(out, "finalized %s with fee %d; pending=%d\n", guid, fee, n.composer.PendingCount())
			return nil
		},
	}
}
