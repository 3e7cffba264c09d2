package cmd

import (
	"fmt"
	"strings"

	"github.com/adtgram/engine/src/market"
	"github.com/adtgram/engine/src/utils/gateway"
	"github.com/adtgram/engine/src/utils/logger"
	"github.com/adtgram/engine/src/utils/model"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(dealsCmd)
	dealsCmd.Flags().Int64Var(&dealsUserID, "user", 0, "user id to list deals for")
	dealsCmd.Flags().StringVar(&dealsRole, "role", string(model.RoleAdvertiser), "role view (advertiser or owner)")
}

var (
	dealsUserID int64
	dealsRole   string
)

var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "List the user's deals in one role view with their legal actions",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		role := model.Role(dealsRole)
		if !role.IsValid() {
			return fmt.Errorf("unknown role: %s", dealsRole)
		}

		client := gateway.NewClient(conf)
		deals, err := client.UserDeals(ctx, dealsUserID)
		if err != nil {
			return
		}

		visible := market.FilterByRole(deals, role)
		if len(visible) == 0 {
			fmt.Println("No deals")
			return nil
		}

		for _, deal := range visible {
			actions := model.AvailableActions(deal.Status, role)
			names := make([]string, 0, len(actions))
			for _, action := range actions {
				names = append(names, string(action))
			}
			fmt.Printf("%6d  %-10s  %10s TON  [%s]\n",
				deal.ID, deal.Status, deal.Amount().String(), strings.Join(names, ", "))
		}
		return nil
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished deals command")
		return
	},
}
