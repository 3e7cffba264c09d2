package cmd

import (
	"fmt"

	"github.com/adtgram/engine/src/market"
	"github.com/adtgram/engine/src/utils/gateway"
	"github.com/adtgram/engine/src/utils/logger"
	"github.com/adtgram/engine/src/utils/monitoring"
	"github.com/adtgram/engine/src/utils/wallet"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(buyCmd)
	buyCmd.Flags().Int64Var(&buyUserID, "user", 0, "advertiser user id")
	buyCmd.Flags().Int64Var(&buyChannelID, "channel", 0, "channel id to buy a post in")
	buyCmd.Flags().StringVar(&buyBrief, "brief", "", "what the ad is about")
	buyCmd.Flags().Float64Var(&buyAmount, "amount", 0, "offered price in TON")
}

var (
	buyUserID    int64
	buyChannelID int64
	buyBrief     string
	buyAmount    float64
)

var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Create a deal for a channel and pay for it in one go",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		monitor := monitoring.NewMonitor(conf)
		client := gateway.NewClient(conf)

		session := wallet.NewSession(conf).
			WithSigner(wallet.NewBridgeSigner(conf))
		err = session.Start()
		if err != nil {
			return
		}
		defer session.StopWait()

		reconciler := market.NewReconciler(conf).
			WithLedger(client).
			WithStore(market.NewStore(conf)).
			WithMonitor(monitor)

		orchestrator := market.NewOrchestrator(conf).
			WithLedger(client).
			WithSession(session).
			WithReconciler(reconciler).
			WithMonitor(monitor)

		channels, err := client.Channels(ctx)
		if err != nil {
			return
		}

		for i := range channels {
			if channels[i].ID != buyChannelID {
				continue
			}

			result, err := orchestrator.BuyAd(ctx, buyUserID, &channels[i], buyBrief, buyAmount)
			if err != nil {
				return err
			}

			switch result.Outcome.Kind {
			case wallet.OutcomeSuccess:
				fmt.Printf("Deal %d paid, status: %s\n", result.DealID, result.Status)
			case wallet.OutcomeUserCancelled:
				fmt.Printf("Deal %d created, payment cancelled in the wallet\n", result.DealID)
			case wallet.OutcomeIndeterminate:
				fmt.Printf("Deal %d created, payment outcome unknown, check the deal later\n", result.DealID)
			}
			return nil
		}

		return fmt.Errorf("channel %d not found", buyChannelID)
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished buy command")
		return
	},
}
