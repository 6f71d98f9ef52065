package main

import (
	"github.com/spf13/cobra"

	"github.com/kanavsharmaa/pdf-annotator/annotation"
	"github.com/kanavsharmaa/pdf-annotator/jwt"

	annotationCmd "github.com/kanavsharmaa/pdf-annotator/annotation/cmd"
)

func init() {
	inheritPersistentPreRun(&TokenCommand)

	RootCmd.AddCommand(&TokenCommand)
}

var TokenCommand = cobra.Command{
	Use:   "token <role>",
	Short: "Craft a token for a role",
	Long:  "Craft a token for a role: A1 (admin), D1 or D2 (annotators), R1 (reader)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		role, err := annotation.ParseRole(args[0])
		if err != nil {
			logger.Fatal(err)
		}

		key, err := annotationCmd.LoadKey(config.Annotation)
		if err != nil {
			logger.Fatal("could not load key:", err)
		}

		ttl, err := config.TokenTTL()
		if err != nil {
			logger.Fatal("invalid token ttl:", err)
		}

		token, err := jwt.NewEncodeDecoder(key, ttl).Encode(string(role))
		if err != nil {
			logger.Fatal(err)
		}

		cmd.Println(token)
	},
}
