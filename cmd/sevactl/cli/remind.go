package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sevadhara/console/internal/buyers"
	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/sellers"
)

func newRemindCommand(app *App) *cobra.Command {
	var seller bool
	cmd := &cobra.Command{
		Use:   "remind <id>",
		Short: "Send a WhatsApp outstanding reminder to a buyer or seller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession()
			if err != nil {
				return err
			}
			var name string
			if seller {
				var rec sellers.Seller
				rec, err = s.catalog.Sellers.Remind(cmd.Context(), args[0])
				name = rec.FullName
			} else {
				var rec buyers.Buyer
				rec, err = s.catalog.Buyers.Remind(cmd.Context(), args[0])
				name = rec.FullName
			}
			switch {
			case errors.Is(err, buyers.ErrNothingDue), errors.Is(err, sellers.ErrNothingDue):
				app.printf("%s has nothing outstanding; no reminder sent\n", name)
				return nil
			case errors.Is(err, notify.ErrAlreadyQueued):
				app.printf("A reminder to %s is already queued\n", name)
				return nil
			case err != nil:
				return err
			}
			app.printf("Reminder sent to %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&seller, "seller", false, "id refers to a seller instead of a buyer")
	return cmd
}
