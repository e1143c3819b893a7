package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"oai-harvester/internal/domain/entity"
	srcUC "oai-harvester/internal/usecase/source"
)

var sourceAddInput srcUC.CreateInput

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage registered repositories",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := sources.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			cmd.Println("No sources registered.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "ID\tNAME\tPREFIX\tLAST HARVEST\tBASE URL")
		for _, s := range list {
			last := "never"
			if s.LastHarvestAt != nil {
				last = s.LastHarvestAt.UTC().Format(time.RFC3339)
			}
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.DisplayName(), s.Prefix(), last, s.BaseURL)
		}
		return tw.Flush()
	},
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add <base-url>",
	Short: "Register a repository",
	Long: `Registers an OAI-PMH repository. Without --name the repository is
identified first and its reported name and descriptor are stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := sourceAddInput
		in.BaseURL = args[0]
		src, err := sources.Create(cmd.Context(), in)
		if err != nil {
			return err
		}
		cmd.Printf("Registered source %d: %s\n", src.ID, src.DisplayName())
		printSource(cmd, src)
		return nil
	},
}

var sourcesRefreshCmd = &cobra.Command{
	Use:   "refresh <id>",
	Short: "Re-identify a registered repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		src, err := sources.Refresh(cmd.Context(), id)
		if err != nil {
			return err
		}
		cmd.Printf("Refreshed source %d: %s\n", src.ID, src.DisplayName())
		printSource(cmd, src)
		return nil
	},
}

var sourcesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a repository and all of its records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := sources.Delete(cmd.Context(), id); err != nil {
			return err
		}
		cmd.Printf("Deleted source %d.\n", id)
		return nil
	},
}

var identifyCmd = &cobra.Command{
	Use:   "identify <base-url>",
	Short: "Show a repository's Identify response without registering it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := sources.Identify(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printDescriptor(cmd, *desc)
		return nil
	},
}

var setsCmd = &cobra.Command{
	Use:   "sets <base-url>",
	Short: "List the sets a repository advertises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := sources.ListSets(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(sets) == 0 {
			cmd.Println("Repository advertises no sets.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "SPEC\tNAME")
		for _, s := range sets {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", s.Spec, s.Name)
		}
		return tw.Flush()
	},
}

func init() {
	sourcesAddCmd.Flags().StringVar(&sourceAddInput.Name, "name", "", "Repository name (skips Identify)")
	sourcesAddCmd.Flags().StringVar(&sourceAddInput.Description, "description", "", "Repository description")
	sourcesAddCmd.Flags().StringVar(&sourceAddInput.MetadataPrefix, "prefix", "", "Metadata prefix to harvest with (default oai_dc)")
	sourcesAddCmd.Flags().StringVar(&sourceAddInput.OfficialURL, "official-url", "", "Public address of the repository")

	sourcesCmd.AddCommand(sourcesListCmd, sourcesAddCmd, sourcesRefreshCmd, sourcesDeleteCmd)
	rootCmd.AddCommand(sourcesCmd, identifyCmd, setsCmd)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid source id %q", raw)
	}
	return id, nil
}

func printSource(cmd *cobra.Command, s *entity.Source) {
	cmd.Printf("  base url:     %s\n", s.BaseURL)
	cmd.Printf("  official url: %s\n", s.OfficialURL)
	cmd.Printf("  prefix:       %s\n", s.Prefix())
	if s.Descriptor.ProtocolVersion != "" {
		cmd.Printf("  protocol:     %s\n", s.Descriptor.ProtocolVersion)
	}
}

func printDescriptor(cmd *cobra.Command, d entity.SourceDescriptor) {
	cmd.Printf("Repository:   %s\n", d.RepositoryName)
	cmd.Printf("Protocol:     %s\n", d.ProtocolVersion)
	if d.AdminEmail != "" {
		cmd.Printf("Admin email:  %s\n", d.AdminEmail)
	}
	if !d.EarliestDatestamp.IsZero() {
		cmd.Printf("Earliest:     %s\n", d.EarliestDatestamp.UTC().Format(time.RFC3339))
	}
	if d.DeletedRecordPolicy != "" {
		cmd.Printf("Deleted:      %s\n", d.DeletedRecordPolicy)
	}
	if d.Granularity != "" {
		cmd.Printf("Granularity:  %s\n", d.Granularity)
	}
	if d.RepositoryIdentifier != "" {
		cmd.Printf("Identifier:   %s\n", d.RepositoryIdentifier)
	}
}
