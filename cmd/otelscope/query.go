package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/otelscope/otelscope/internal/config"
	"github.com/otelscope/otelscope/internal/output"
	"github.com/otelscope/otelscope/internal/queryrpc"
)

// cmdQuery runs a one-shot SQL statement, or a Follow stream with --follow,
// against a running instance's query gRPC port.
func cmdQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	addr := fs.String("addr", "", "query gRPC address (default: OTELSCOPE_QUERY_ADDR or :4319)")
	format := fs.String("format", "text", "output format: text, jsonl, or csv")
	follow := fs.Bool("follow", false, "stream results with Follow instead of a one-shot Query")
	mode := fs.String("mode", "new_spans_only", "follow delta mode for traces: new_spans_only or full_group")
	schema := fs.Bool("schema", false, "print the table schema instead of running a query")
	clear := fs.String("clear", "", "clear the named tables (comma-separated: traces,logs,metrics) instead of querying")
	timeout := fs.Duration("timeout", 10*time.Second, "one-shot query timeout")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: otelscope query [flags] [SQL]")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		printFlags(fs)
	}
	fs.Parse(args)

	out, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	queryAddr := *addr
	if queryAddr == "" {
		queryAddr = config.Load().QueryAddr
	}

	client, err := queryrpc.Dial(queryAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dialing %s: %v\n", queryAddr, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx := context.Background()

	switch {
	case *schema:
		runSchema(ctx, client)
	case *clear != "":
		runClear(ctx, client, *clear)
	case *follow:
		runFollow(ctx, client, fs.Arg(0), *mode, out)
	default:
		runQuery(ctx, client, fs.Arg(0), *timeout, out)
	}
}

func runQuery(ctx context.Context, client *queryrpc.Client, sql string, timeout time.Duration, format output.Format) {
	if sql == "" {
		fmt.Fprintln(os.Stderr, "query: missing SQL statement")
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := client.Query(ctx, sql)
	if err != nil {
		fmt.Fprintf(os.Stderr, "query failed: %v\n", err)
		os.Exit(1)
	}
	if err := writeResponse(resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "writing output: %v\n", err)
		os.Exit(1)
	}
}

func runFollow(ctx context.Context, client *queryrpc.Client, sql, mode string, format output.Format) {
	if sql == "" {
		fmt.Fprintln(os.Stderr, "query: missing SQL statement")
		os.Exit(1)
	}
	frames, err := client.Follow(ctx, sql, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "follow failed: %v\n", err)
		os.Exit(1)
	}
	for frame := range frames {
		resp := &queryrpc.QueryResponse{Table: frame.Table, Columns: frame.Columns, Rows: frame.Rows}
		if err := writeResponse(resp, format); err != nil {
			fmt.Fprintf(os.Stderr, "writing output: %v\n", err)
			os.Exit(1)
		}
	}
}

func runSchema(ctx context.Context, client *queryrpc.Client) {
	resp, err := client.Schema(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schema failed: %v\n", err)
		os.Exit(1)
	}
	for table, cols := range resp.Tables {
		fmt.Printf("%s\n", table)
		for _, c := range cols {
			fmt.Printf("  %-16s %s\n", c.Name, c.Type)
		}
	}
}

func runClear(ctx context.Context, client *queryrpc.Client, tables string) {
	var names []string
	for _, t := range strings.Split(tables, ",") {
		if t = strings.TrimSpace(t); t != "" {
			names = append(names, t)
		}
	}
	resp, err := client.Clear(ctx, names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clear failed: %v\n", err)
		os.Exit(1)
	}
	for table, count := range resp.Counts {
		fmt.Printf("%s: cleared %d\n", table, count)
	}
}

func writeResponse(resp *queryrpc.QueryResponse, format output.Format) error {
	return output.WriteRaw(os.Stdout, resp.Columns, resp.Rows, format)
}
