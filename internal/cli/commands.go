package cli

import (
	"github.com/spf13/cobra"

	"github.com/Ning0612/lumins/internal/service"
)

func addSecureFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("secure", "s", false, "Compare files with BLAKE2b-512 instead of a 64-bit hash")
}

func addVerboseFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("verbose", "v", false, "Log every file operation")
}

func addSequentialFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("sequential", "S", false, "Process entries one at a time")
}

func newCopyCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cp SOURCE DESTINATION",
		Short: "Copy a directory tree",
		Long: `Copy SOURCE into DESTINATION. If DESTINATION exists the tree is copied to
DESTINATION/<name of SOURCE>, otherwise DESTINATION is created. Files already
present are only rewritten when their contents differ. Nothing is deleted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.start(cmd, "Copying")
			if err != nil {
				return err
			}
			defer s.close()

			dest, err := service.ResolveCopyTarget(args[0], args[1])
			if err != nil {
				return err
			}

			svc, err := s.service()
			if err != nil {
				return err
			}
			result, err := svc.Copy(args[0], dest)
			if err != nil {
				return err
			}
			s.report(cmd.OutOrStdout(), result)
			return nil
		},
	}

	addSecureFlag(cmd)
	addVerboseFlag(cmd)
	addSequentialFlag(cmd)
	return cmd
}

func newSyncCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync SOURCE DESTINATION",
		Short: "Make DESTINATION an exact copy of SOURCE",
		Long: `Synchronize DESTINATION with SOURCE: copy what is new or changed and delete
what only exists in DESTINATION. DESTINATION is created if missing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.start(cmd, "Synchronizing")
			if err != nil {
				return err
			}
			defer s.close()

			dest, err := service.ResolveSyncTarget(args[0], args[1])
			if err != nil {
				return err
			}

			svc, err := s.service()
			if err != nil {
				return err
			}
			result, err := svc.Synchronize(args[0], dest)
			if err != nil {
				return err
			}
			s.report(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolP("nodelete", "n", false, "Do not delete destination-only files")
	addSecureFlag(cmd)
	addVerboseFlag(cmd)
	addSequentialFlag(cmd)
	return cmd
}

func newRemoveCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm TARGET...",
		Short: "Remove directory trees",
		Long:  `Remove each TARGET directory and everything below it. Targets that are not directories are skipped.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.start(cmd, "Removing")
			if err != nil {
				return err
			}
			defer s.close()

			targets, err := service.ValidateRemoveTargets(args)
			if err != nil {
				return err
			}

			svc, err := s.service()
			if err != nil {
				return err
			}
			result, err := svc.Remove(targets...)
			s.report(cmd.OutOrStdout(), result)
			return err
		},
	}

	addVerboseFlag(cmd)
	addSequentialFlag(cmd)
	return cmd
}
