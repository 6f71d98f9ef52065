package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/users"

	annotationCmd "github.com/kanavsharmaa/pdf-annotator/annotation/cmd"
)

var (
	services *annotationCmd.Services

	// Documents are managed by the admin.
	admin = users.User{Role: annotation.Admin}
)

func init() {
	DocumentCommand.AddCommand(&ListDocumentsCommand)
	DocumentCommand.AddCommand(&CreateDocumentCommand)
	DocumentCommand.AddCommand(&DeleteDocumentCommand)

	inheritPersistentPreRun(&DocumentCommand)
	inheritPersistentPreRun(&ListDocumentsCommand)
	inheritPersistentPreRun(&CreateDocumentCommand)
	inheritPersistentPreRun(&DeleteDocumentCommand)

	RootCmd.AddCommand(&DocumentCommand)
}

func openServices(cmd *cobra.Command, args []string) {
	var err error
	services, err = annotationCmd.Open(config.Annotation, logger)
	if err != nil {
		logger.Fatal("could not open stores:", err)
	}
}

func closeServices(cmd *cobra.Command, args []string) {
	if services == nil {
		return
	}

	if err := services.Close(); err != nil {
		logger.Error("could not close stores:", err)
	}
}

func printJSON(cmd *cobra.Command, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatal(err)
	}
	cmd.Println(string(data))
}

var DocumentCommand = cobra.Command{
	Use:   "document",
	Short: "Manage the documents",
	Long:  "Manage the documents",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRun:  openServices,
	PersistentPostRun: closeServices,
}

var ListDocumentsCommand = cobra.Command{
	Use:   "list",
	Short: "List all the documents",
	Long:  "List all the documents",
	Run: func(cmd *cobra.Command, args []string) {
		docs, err := services.Documents.List(admin)
		if err != nil {
			logger.Fatal(err)
		}

		printJSON(cmd, docs)
	},
}

var CreateDocumentCommand = cobra.Command{
	Use:   "create <file name>",
	Short: "Register a document",
	Long:  "Register a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := services.Documents.Create(admin, args[0])
		if err != nil {
			logger.Fatal(err)
		}

		printJSON(cmd, doc)
	},
}

var DeleteDocumentCommand = cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document and all its annotations",
	Long:  "Delete a document and all its annotations",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		n, err := services.Documents.Delete(admin, args[0])
		if err != nil {
			logger.Fatal(err)
		}

		logger.Infof("document %s deleted with %d annotations", args[0], n)
	},
}
