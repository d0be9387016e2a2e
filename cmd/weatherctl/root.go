package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-history-dashboard/internal/dashboard"
)

// errReported marks a failure already shown to the user.
var errReported = errors.New("reported")

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("weather")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "weatherctl",
		Short:         "Look up current weather and its history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("server", "http://localhost:5000", "weather service base URL (env WEATHER_SERVICE_URL)")
	root.PersistentFlags().Duration("timeout", 30*time.Second, "timeout for each call to the service")
	_ = v.BindPFlag("service_url", root.PersistentFlags().Lookup("server"))
	_ = v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	newAPI := func() dashboard.API {
		return dashboard.NewHTTPClient(v.GetString("service_url"), &http.Client{Timeout: v.GetDuration("timeout")})
	}

	root.AddCommand(newSubmitCmd(newAPI), newHistoryCmd(newAPI))
	return root
}

func newSubmitCmd(newAPI func() dashboard.API) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <city>",
		Short: "Fetch and store current weather for a city, then show its history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := dashboard.NewController(newAPI())
			st, err := ctrl.Submit(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := dashboard.WriteText(cmd.OutOrStdout(), dashboard.NewView(st, time.Now())); err != nil {
				return err
			}
			if st.Error() != "" {
				return errReported
			}
			return nil
		},
	}
}

func newHistoryCmd(newAPI func() dashboard.API) *cobra.Command {
	return &cobra.Command{
		Use:   "history <city>",
		Short: "Show stored observations whose city contains the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			recs, err := newAPI().History(cmd.Context(), query)
			if err != nil {
				msg := dashboard.MsgServerUnreachable
				if dashboard.IsStatusError(err) {
					msg = dashboard.MsgHistoryUnavailable
				}
				_ = dashboard.WriteText(cmd.OutOrStdout(), dashboard.View{Error: msg})
				return errReported
			}
			if len(recs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No records for %q\n", query)
				return nil
			}
			return dashboard.WriteText(cmd.OutOrStdout(), dashboard.View{History: dashboard.HistoryItems(recs, time.Now())})
		},
	}
}
