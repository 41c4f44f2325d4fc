package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL        string
	timeout        time.Duration
	idempotencyKey string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "walletctl",
		Short:         "Wallet service CLI tool",
		Long:          `A command line interface for interacting with the wallet API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the wallet API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for mutating requests")

	rootCmd.AddCommand(balanceCmd(), creditCmd(), debitCmd(), historyCmd())

	return rootCmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current wallet balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallet/balance")
		},
	}
}

func creditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credit <amount>",
		Short: "Add funds to the wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAmount("/api/v1/wallet/credit", args[0])
		},
	}
}

func debitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debit <amount>",
		Short: "Withdraw funds from the wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAmount("/api/v1/wallet/debit", args[0])
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List wallet transactions in insertion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			return getJSON(fmt.Sprintf("/api/v1/wallet/transactions?limit=%d&offset=%d", limit, offset))
		},
	}

	cmd.Flags().Int("limit", 50, "Page size")
	cmd.Flags().Int("offset", 0, "Page offset")

	return cmd
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return renderResponse(resp)
}

func postAmount(path, amount string) error {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, strings.NewReader(fmt.Sprintf(`{"amount":%q}`, amount)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return renderResponse(resp)
}

func renderResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		fmt.Println(truncate(string(body), 2000))
		return nil
	}

	printJSON(payload)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
