package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Manage uploaded documents",
	Long:    `List, upload, delete, download, or watch for documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentUploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Upload files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocumentUpload,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Long:  `Delete a document. Playgrounds built on the document are deleted too.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentDownloadCmd = &cobra.Command{
	Use:   "download [doc-id]",
	Short: "Download a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDownload,
}

var documentWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Upload files as they appear in a directory",
	Long: `Watch a directory and upload every regular file created in it.
Hidden files are ignored. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentWatch,
}

// downloadOutput is a flag for the download command.
var downloadOutput string

func init() {
	documentDownloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Output file (default stdout)")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentUploadCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentDownloadCmd)
	documentCmd.AddCommand(documentWatchCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded.")
		return nil
	}

	cmd.Println("Documents:")
	for i := range docs {
		cmd.Printf("  %s  %s\n", docs[i].ID, docs[i].Name)
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured
	}

	var errs []error
	for _, path := range args {
		doc, err := documentService.UploadFile(cmd.Context(), path)
		if err != nil {
			errs = append(errs, fmt.Errorf("upload %s: %w", path, err))
			continue
		}
		cmd.Printf("Uploaded %s as %s\n", doc.Name, doc.ID)
	}
	return errors.Join(errs...)
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured
	}

	deleted, err := documentService.Delete(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	for _, id := range deleted {
		cmd.Printf("  Deleted playground %s\n", id)
	}
	return nil
}

func runDocumentDownload(cmd *cobra.Command, args []string) (err error) {
	if documentService == nil {
		return errNotConfigured
	}

	var w io.Writer = cmd.OutOrStdout()
	if downloadOutput != "" {
		f, err := os.Create(downloadOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	n, err := documentService.Download(cmd.Context(), args[0], w)
	if err != nil {
		return fmt.Errorf("failed to download document: %w", err)
	}

	if downloadOutput != "" {
		cmd.Printf("Wrote %d bytes to %s\n", n, downloadOutput)
	}
	return nil
}

func runDocumentWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cmd.Printf("Watching %s for new files...\n", args[0])
	return documentService.Watch(ctx, args[0], func(path string, doc domain.Document, err error) {
		if err != nil {
			cmd.PrintErrf("Failed to upload %s: %v\n", path, err)
			return
		}
		cmd.Printf("Uploaded %s as %s\n", doc.Name, doc.ID)
	})
}
