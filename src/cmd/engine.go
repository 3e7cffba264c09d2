package cmd

import (
	"fmt"

	"github.com/adtgram/engine/src/market"
	"github.com/adtgram/engine/src/utils/logger"
	"github.com/adtgram/engine/src/utils/model"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(engineCmd)
	engineCmd.Flags().Int64Var(&engineUserID, "user", 0, "user id the engine polls deals for")
	engineCmd.Flags().StringVar(&engineRole, "role", string(model.RoleAdvertiser), "role view to poll (advertiser or owner)")
}

var (
	engineUserID int64
	engineRole   string
)

var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Poll the backend for deal changes and keep the local view reconciled",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		role := model.Role(engineRole)
		if !role.IsValid() {
			return fmt.Errorf("unknown role: %s", engineRole)
		}
		if engineUserID <= 0 {
			return fmt.Errorf("--user is required")
		}

		controller, err := market.NewController(conf, market.Scope{
			UserID: engineUserID,
			Role:   role,
			View:   "deals",
		})
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		<-ctx.Done()

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished engine command")
		return
	},
}
