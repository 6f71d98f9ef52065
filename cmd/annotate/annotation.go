package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/users"
)

var role string

func init() {
	AnnotationCommand.PersistentFlags().StringVar(&role, "role", string(annotation.Admin), "role to act as")

	AnnotationCommand.AddCommand(&ListAnnotationsCommand)
	AnnotationCommand.AddCommand(&SearchAnnotationsCommand)
	AnnotationCommand.AddCommand(&EraseCommand)

	inheritPersistentPreRun(&AnnotationCommand)
	inheritPersistentPreRun(&ListAnnotationsCommand)
	inheritPersistentPreRun(&SearchAnnotationsCommand)
	inheritPersistentPreRun(&EraseCommand)

	RootCmd.AddCommand(&AnnotationCommand)
}

func actor() users.User {
	r, err := annotation.ParseRole(role)
	if err != nil {
		logger.Fatal(err)
	}
	return users.User{Role: r}
}

var AnnotationCommand = cobra.Command{
	Use:   "annotation",
	Short: "Inspect the annotations of a document",
	Long:  "Inspect the annotations of a document as seen by a role",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRun:  openServices,
	PersistentPostRun: closeServices,
}

var ListAnnotationsCommand = cobra.Command{
	Use:   "list <document id>",
	Short: "List the annotations of a document visible to the role",
	Long:  "List the annotations of a document visible to the role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		as, err := services.Annotations.Fetch(actor(), args[0])
		if err != nil {
			logger.Fatal(err)
		}

		printJSON(cmd, as)
	},
}

var SearchAnnotationsCommand = cobra.Command{
	Use:   "search <document id> <query>",
	Short: "Search the text of the annotations of a document",
	Long:  "Search the text of the annotations of a document visible to the role",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		as, err := services.Annotations.Search(actor(), args[0], args[1])
		if err != nil {
			logger.Fatal(err)
		}

		printJSON(cmd, as)
	},
}

var EraseCommand = cobra.Command{
	Use:   "erase <document id> <page> <x> <y>",
	Short: "Erase the annotation at a point",
	Long:  "Erase the first annotation the role can delete at a point of a page",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		page, err := strconv.Atoi(args[1])
		if err != nil {
			logger.Fatal("invalid page:", err)
		}

		x, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			logger.Fatal("invalid x:", err)
		}

		y, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			logger.Fatal("invalid y:", err)
		}

		id, err := services.Annotations.Erase(actor(), args[0], page, annotation.Point{X: x, Y: y})
		if err != nil {
			logger.Fatal(err)
		}

		if id == "" {
			logger.Print("nothing to erase")
			return
		}
		logger.Infof("annotation %s erased", id)
	},
}
