package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/assetsync/internal/adapter/http/dto"
	"github.com/iho/assetsync/internal/infrastructure/config"
	"github.com/iho/assetsync/internal/infrastructure/postgres"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	baseURL string
	timeout time.Duration
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "assetsync-cli",
		Short:         "AssetSync CLI tool",
		Long:          `A command line interface for delivering receipt events to AssetSync and inspecting assets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the AssetSync API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(receiptCmd(opts), assetCmd(opts), tablesCmd(), migrateCmd())

	return rootCmd
}

func receiptCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Deliver item receipt events",
	}

	var createdKey string
	created := &cobra.Command{
		Use:   "created <receipt-id>",
		Short: "Process a newly created item receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.DispatchResponse
			if err := opts.do(cmd.Context(), http.MethodPost, "/api/v1/receipts/"+args[0]+"/created", nil, createdKey, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	created.Flags().StringVar(&createdKey, "idempotency-key", "", "Idempotency-Key header value")

	var (
		updatedKey string
		previous   []string
	)
	updated := &cobra.Command{
		Use:   "updated <receipt-id>",
		Short: "Process an item receipt update",
		Long: `Process an item receipt update. Pass --previous-landed-cost once per slot
in order; "-" marks an empty slot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := updatedRequest(previous)
			if err != nil {
				return err
			}

			var resp dto.DispatchResponse
			if err := opts.do(cmd.Context(), http.MethodPost, "/api/v1/receipts/"+args[0]+"/updated", req, updatedKey, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	updated.Flags().StringSliceVar(&previous, "previous-landed-cost", nil, "Landed cost amounts before the update")
	updated.Flags().StringVar(&updatedKey, "idempotency-key", "", "Idempotency-Key header value")

	cmd.AddCommand(created, updated)
	return cmd
}

func assetCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Inspect assets",
	}

	get := &cobra.Command{
		Use:   "get <asset-id>",
		Short: "Show one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var asset dto.AssetResponse
			if err := opts.do(cmd.Context(), http.MethodGet, "/api/v1/assets/"+args[0], nil, "", &asset); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), asset)
		},
	}

	var receiptID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the assets created from a receipt",
		RunE: func(cmd *cobra.Command, args []string) error {
			var assets []dto.AssetResponse
			if err := opts.do(cmd.Context(), http.MethodGet, "/api/v1/receipts/"+receiptID+"/assets", nil, "", &assets); err != nil {
				return err
			}
			return printAssets(cmd.OutOrStdout(), assets)
		},
	}
	list.Flags().StringVar(&receiptID, "receipt", "", "Receipt ID")
	_ = list.MarkFlagRequired("receipt")

	cmd.AddCommand(get, list)
	return cmd
}

func tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Asset configuration tables",
	}

	validate := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate an asset tables file, or the built-in tables without a path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			tables, err := config.LoadAssetTables(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d profiles, %d subsidiaries, %d allowed\n",
				len(tables.Profiles), len(tables.Subsidiaries), len(tables.AllowedSubsidiaries))
			return nil
		},
	}

	cmd.AddCommand(validate)
	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, source string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL")
	cmd.PersistentFlags().StringVar(&source, "source", "file://migrations", "Migrations source URL")

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrations(databaseURL, source, logger)
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.RunMigrationsDown(databaseURL, source, logger)
		},
	}

	cmd.AddCommand(up, down)
	return cmd
}

func updatedRequest(previous []string) (*dto.ReceiptUpdatedRequest, error) {
	req := &dto.ReceiptUpdatedRequest{}
	for _, v := range previous {
		v = strings.TrimSpace(v)
		if v == "-" || v == "" {
			req.PreviousLandedCosts = append(req.PreviousLandedCosts, nil)
			continue
		}
		req.PreviousLandedCosts = append(req.PreviousLandedCosts, &v)
	}

	if _, err := req.LandedCosts(); err != nil {
		return nil, err
	}

	return req, nil
}

// do sends a request and decodes a 2xx JSON response into out.
func (o *options) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(o.baseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return json.Unmarshal(data, out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAssets(w io.Writer, assets []dto.AssetResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSERIAL\tITEM\tQTY\tCOST\tLOCATION\tSTATUS")
	for _, a := range assets {
		status := "active"
		if a.Inactive {
			status = "inactive"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			a.ID, truncate(a.SerialNumber, 24), a.ItemID, a.Quantity, a.Cost, a.LocationID, status)
	}
	return tw.Flush()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
