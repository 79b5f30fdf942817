package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func notificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notification"},
		Short:   "List notification providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialClient()
			if err != nil {
				return err
			}
			defer client.Disconnect()

			notifications := client.Notifications()
			if flags.jsonOut {
				return printJSON(notifications)
			}
			if len(notifications) == 0 {
				fmt.Print(renderEmpty("notifications"))
				return nil
			}

			rows := make([][]string, 0, len(notifications))
			for _, n := range notifications {
				def := ""
				if n.IsDefault {
					def = "default"
				}
				rows = append(rows, []string{
					strconv.Itoa(n.ID),
					n.Name,
					renderActive(n.Active),
					def,
				})
			}
			fmt.Print(renderTable([]string{"ID", "NAME", "STATE", "DEFAULT"}, rows))
			return nil
		},
	}
}

func statusPagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status-pages",
		Aliases: []string{"status-page", "pages"},
		Short:   "List status pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialClient()
			if err != nil {
				return err
			}
			defer client.Disconnect()

			pages := client.StatusPages()
			if flags.jsonOut {
				return printJSON(pages)
			}
			if len(pages) == 0 {
				fmt.Print(renderEmpty("status pages"))
				return nil
			}

			rows := make([][]string, 0, len(pages))
			for _, p := range pages {
				rows = append(rows, []string{
					strconv.Itoa(p.ID),
					p.Slug,
					p.Title,
				})
			}
			fmt.Print(renderTable([]string{"ID", "SLUG", "TITLE"}, rows))
			return nil
		},
	}
}

func maintenanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maintenance",
		Short: "List maintenance windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialClient()
			if err != nil {
				return err
			}
			defer client.Disconnect()

			windows := client.MaintenanceList()
			if flags.jsonOut {
				return printJSON(windows)
			}
			if len(windows) == 0 {
				fmt.Print(renderEmpty("maintenance windows"))
				return nil
			}

			rows := make([][]string, 0, len(windows))
			for _, w := range windows {
				rows = append(rows, []string{
					strconv.Itoa(w.ID),
					w.Title,
					w.Strategy,
					renderActive(w.Active),
				})
			}
			fmt.Print(renderTable([]string{"ID", "TITLE", "STRATEGY", "STATE"}, rows))
			return nil
		},
	}
}

func tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialClient()
			if err != nil {
				return err
			}
			defer client.Disconnect()

			tags, err := client.GetTags()
			if err != nil {
				return err
			}
			if flags.jsonOut {
				return printJSON(tags)
			}
			if len(tags) == 0 {
				fmt.Print(renderEmpty("tags"))
				return nil
			}

			rows := make([][]string, 0, len(tags))
			for _, tag := range tags {
				rows = append(rows, []string{
					strconv.Itoa(tag.ID),
					tag.Name,
					tag.Color,
				})
			}
			fmt.Print(renderTable([]string{"ID", "NAME", "COLOR"}, rows))
			return nil
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server information",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialClient()
			if err != nil {
				return err
			}
			defer client.Disconnect()

			info := client.Info()
			if info == nil {
				fmt.Print(renderEmpty("server info yet"))
				return nil
			}
			if flags.jsonOut {
				return printJSON(info)
			}

			fmt.Printf("Version:         %s\n", info.Version)
			if info.LatestVersion != "" {
				fmt.Printf("Latest version:  %s\n", info.LatestVersion)
			}
			if info.PrimaryBaseURL != "" {
				fmt.Printf("Base URL:        %s\n", info.PrimaryBaseURL)
			}
			if info.ServerTimezone != "" {
				fmt.Printf("Timezone:        %s\n", info.ServerTimezone)
			}
			return nil
		},
	}
}
