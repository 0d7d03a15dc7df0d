package cli

import (
	"fmt"

	"robotdriver/application/lookup"
	"robotdriver/domain/entities"

	"github.com/spf13/cobra"
)

type priceFlags struct {
	email      string
	password   string
	product    string
	headful    bool
	autoSignup bool
}

func newPriceCommand(app *App) *cobra.Command {
	flags := &priceFlags{}
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Login, search and report a product price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runPrice(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.email, "email", "", "account email")
	cmd.Flags().StringVar(&flags.password, "password", "", "account password")
	cmd.Flags().StringVarP(&flags.product, "product", "p", entities.DefaultProduct, "product to look up")
	cmd.Flags().BoolVar(&flags.headful, "headful", false, "show the browser window")
	cmd.Flags().BoolVar(&flags.autoSignup, "signup-if-needed", false, "create the account when login fails")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *App) runPrice(cmd *cobra.Command, flags *priceFlags) error {
	headless := !flags.headful
	launcher := a.newLauncher(a.cfg, a.logger)
	flow := lookup.NewFlow(launcher, a.newAdapter(a.logger), nil, a.logger)

	res, err := flow.Run(cmd.Context(), entities.PriceRequest{
		Email:      flags.email,
		Password:   flags.password,
		Product:    flags.product,
		Headless:   &headless,
		AutoSignup: flags.autoSignup,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case !res.Login:
		fmt.Fprintln(out, "Fail: Login failed.")
		return fail()
	case res.OK:
		fmt.Fprintf(out, "Success! \"%s\" price is %s\n", flags.product, *res.Price)
		return nil
	case res.Found:
		fmt.Fprintf(out, "Fail: price not found for \"%s\"\n", flags.product)
		return fail()
	default:
		fmt.Fprintf(out, "Fail: product not found -> \"%s\"\n", flags.product)
		return fail()
	}
}
