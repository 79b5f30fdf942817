package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/uptimekit/gokuma"
)

func monitorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "monitors",
		Aliases: []string{"monitor", "m"},
		Short:   "Manage monitors",
	}

	cmd.AddCommand(
		monitorsListCmd(),
		monitorsGetCmd(),
		monitorsAddCmd(),
		monitorsPauseCmd(),
		monitorsResumeCmd(),
		monitorsDeleteCmd(),
	)

	return cmd
}

func monitorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all monitors",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialClient()
			if err != nil {
				return err
			}
			defer client.Disconnect()

			monitors := client.Monitors()
			if flags.jsonOut {
				return printJSON(monitors)
			}
			if len(monitors) == 0 {
				fmt.Print(renderEmpty("monitors"))
				return nil
			}

			rows := make([][]string, 0, len(monitors))
			for _, m := range monitors {
				target := m.URL
				if target == "" {
					target = m.Hostname
				}
				rows = append(rows, []string{
					strconv.Itoa(m.ID),
					m.Name,
					m.Type,
					target,
					renderActive(m.Active),
				})
			}
			fmt.Print(renderTable([]string{"ID", "NAME", "TYPE", "TARGET", "STATE"}, rows))
			return nil
		},
	}
}

func monitorsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch one monitor by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid monitor id %q", args[0])
			}

			client, err := dialClient()
			if err != nil {
				return err
			}
			defer client.Disconnect()

			monitor, err := client.GetMonitor(id)
			if err != nil {
				return err
			}
			return printJSON(monitor)
		},
	}
}

func monitorsAddCmd() *cobra.Command {
	var m gokuma.Monitor

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a monitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialClient()
			if err != nil {
				return err
			}
			defer client.Disconnect()

			id, err := client.AddMonitor(m)
			if err != nil {
				return err
			}
			fmt.Printf("created monitor %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&m.Name, "name", "", "monitor name")
	cmd.Flags().StringVar(&m.Type, "type", "http", "monitor type (http, ping, port, ...)")
	cmd.Flags().StringVar(&m.URL, "target-url", "", "URL to probe (http monitors)")
	cmd.Flags().StringVar(&m.Hostname, "hostname", "", "host to probe (ping/port monitors)")
	cmd.Flags().IntVar(&m.Port, "port", 0, "port to probe (port monitors)")
	cmd.Flags().IntVar(&m.Interval, "interval", 60, "check interval in seconds")
	cmd.Flags().IntVar(&m.MaxRetries, "retries", 0, "retries before a monitor counts as down")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func monitorsPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause <id>",
		Short: "Pause a monitor",
		Args:  cobra.ExactArgs(1),
		RunE:  monitorStateRunE("paused", (*gokuma.Client).PauseMonitor),
	}
}

func monitorsResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <id>",
		Short: "Resume a paused monitor",
		Args:  cobra.ExactArgs(1),
		RunE:  monitorStateRunE("resumed", (*gokuma.Client).ResumeMonitor),
	}
}

func monitorsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a monitor",
		Args:  cobra.ExactArgs(1),
		RunE:  monitorStateRunE("deleted", (*gokuma.Client).DeleteMonitor),
	}
}

func monitorStateRunE(verb string, op func(*gokuma.Client, int) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid monitor id %q", args[0])
		}

		client, err := dialClient()
		if err != nil {
			return err
		}
		defer client.Disconnect()

		if err := op(client, id); err != nil {
			return err
		}
		fmt.Printf("monitor %d %s\n", id, verb)
		return nil
	}
}
