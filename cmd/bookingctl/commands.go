package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/notification"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/reservation"
	jwtsvc "github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/jwt"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog, booking and outbox tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := openDB(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newRelayCmd() *cobra.Command {
	var batch int

	c := &cobra.Command{
		Use:   "relay",
		Short: "Publish one batch of pending booking events and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			if batch <= 0 {
				batch = cfg.RelayBatchSize
			}

			sinks := notification.MultiSink{notification.LogSink{}}
			if cfg.RedisURL != "" {
				rdb, err := notification.NewRedisClient(cfg.RedisURL)
				if err != nil {
					return err
				}
				defer rdb.Close()
				sinks = append(sinks, notification.NewRedisStreamSink(rdb, cfg.RedisStream))
			}
			if cfg.SQSQueueURL != "" {
				client, err := notification.NewSQSClient(cmd.Context())
				if err != nil {
					return err
				}
				sinks = append(sinks, notification.NewSQSSink(client, cfg.SQSQueueURL))
			}

			relay := notification.NewRelay(notification.NewRepository(db), sinks, notification.RelayConfig{
				BatchSize:   batch,
				MaxAttempts: cfg.RelayMaxAttempts,
				Retention:   cfg.OutboxRetention,
			})
			stats, err := relay.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent=%d retry=%d failed=%d\n", stats.Sent, stats.Retry, stats.Failed)
			return nil
		},
	}

	c.Flags().IntVar(&batch, "batch", 0, "events to publish (defaults to RELAY_BATCH_SIZE)")
	return c
}

func newAvailabilityCmd() *cobra.Command {
	var (
		screenID   int64
		date       string
		start, end string
	)

	c := &cobra.Command{
		Use:   "availability",
		Short: "Show booked slots for a screen and date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			res, err := readOnlyService(cfg, db).CheckAvailability(cmd.Context(), reservation.AvailabilityQuery{
				ScreenID:  screenID,
				Date:      date,
				StartTime: start,
				EndTime:   end,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	c.Flags().Int64Var(&screenID, "screen", 0, "screen id")
	c.Flags().StringVar(&date, "date", "", "booking date (YYYY-MM-DD)")
	c.Flags().StringVar(&start, "start", "", "candidate start time (HH:MM)")
	c.Flags().StringVar(&end, "end", "", "candidate end time (HH:MM)")
	_ = c.MarkFlagRequired("screen")
	_ = c.MarkFlagRequired("date")
	return c
}

func newQuoteCmd() *cobra.Command {
	var (
		screenID, packageID int64
		start, end          string
		priceType           string
		services            []string
	)

	c := &cobra.Command{
		Use:   "quote",
		Short: "Price a slot without booking it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			req := reservation.QuoteRequest{
				ScreenID:  screenID,
				StartTime: start,
				EndTime:   end,
				PriceType: domain.PriceType(priceType),
				Services:  domain.ServiceFlags{},
			}
			if packageID > 0 {
				req.EventPackageID = &packageID
			}
			for _, s := range services {
				req.Services[strings.TrimSpace(s)] = true
			}
			price, err := readOnlyService(cfg, db).Quote(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, price)
		},
	}

	c.Flags().Int64Var(&screenID, "screen", 0, "screen id")
	c.Flags().Int64Var(&packageID, "package", 0, "event package id")
	c.Flags().StringVar(&start, "start", "", "start time (HH:MM)")
	c.Flags().StringVar(&end, "end", "", "end time (HH:MM)")
	c.Flags().StringVar(&priceType, "price-type", string(domain.PriceHourly), "hourly or combo")
	c.Flags().StringSliceVar(&services, "service", nil, "add-on service, repeatable")
	_ = c.MarkFlagRequired("screen")
	_ = c.MarkFlagRequired("start")
	_ = c.MarkFlagRequired("end")
	return c
}

func newTokenCmd() *cobra.Command {
	var (
		userID int64
		role   string
		ttl    time.Duration
	)

	c := &cobra.Command{
		Use:   "token",
		Short: "Issue a staff JWT for the staff console or scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != jwtsvc.RoleStaff && role != jwtsvc.RoleAdmin {
				return fmt.Errorf("role must be %s or %s", jwtsvc.RoleStaff, jwtsvc.RoleAdmin)
			}
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is empty")
			}
			token, err := jwtsvc.New(secret, ttl).GenerateToken(userID, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	c.Flags().Int64Var(&userID, "user", 0, "staff user id")
	c.Flags().StringVar(&role, "role", jwtsvc.RoleStaff, "staff or admin")
	c.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = c.MarkFlagRequired("user")
	return c
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
