package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"homefinance-recurring-service/internal/feedback"
	"homefinance-recurring-service/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// feedbackResponse is the JSON shape printed by confirm and reject
type feedbackResponse struct {
	Success   bool   `json:"success"`
	PatternID int64  `json:"pattern_id"`
	Action    string `json:"action"`
}

// confirmCmd represents the confirm command
var confirmCmd = &cobra.Command{
	Use:   "confirm <pattern-id>",
	Short: "Confirm a detected pattern as a real recurring payment",
	Long: `Confirm records that a detected pattern is a genuine recurring payment.
The decision persists in the feedback database and shows up as confirmed
in future detection runs.

Example:
  recurrer confirm 42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFeedback(args[0], "confirm")
	},
}

// rejectCmd represents the reject command
var rejectCmd = &cobra.Command{
	Use:   "reject <pattern-id>",
	Short: "Reject a detected pattern as a false positive",
	Long: `Reject records that a detected pattern is not a real recurring payment.
The pattern stays visible in future runs, marked as rejected, so the
decision itself remains reviewable.

Example:
  recurrer reject 17`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFeedback(args[0], "reject")
	},
}

func init() {
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(rejectCmd)
}

func runFeedback(idArg, action string) error {
	patternID, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return errors.ValidationError(errors.CodeInvalidData,
			"pattern_id", idArg,
			fmt.Errorf("pattern id must be a number"))
	}

	store, err := feedback.NewSQLiteStore(viper.GetString("feedback-db"))
	if err != nil {
		return err
	}
	defer store.Close()

	switch action {
	case "confirm":
		err = store.Confirm(patternID)
	case "reject":
		err = store.Reject(patternID)
	}
	if err != nil {
		return err
	}

	response := feedbackResponse{
		Success:   true,
		PatternID: patternID,
		Action:    action,
	}

	encoder := json.NewEncoder(os.Stdout)
	return encoder.Encode(response)
}
