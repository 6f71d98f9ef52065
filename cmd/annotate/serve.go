package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/kanavsharmaa/pdf-annotator/gin"

	annotationCmd "github.com/kanavsharmaa/pdf-annotator/annotation/cmd"
)

func init() {
	inheritPersistentPreRun(&ServeCommand)

	RootCmd.AddCommand(&ServeCommand)
}

var ServeCommand = cobra.Command{
	Use:   "serve",
	Short: "Start the annotation server",
	Long:  "Start the annotation server",
	Run: func(cmd *cobra.Command, args []string) {
		srv := gin.NewServer(env, logger)

		s := annotationCmd.Start(srv, config.Annotation, logger)
		defer s.Close()

		addr := config.Server.Addr
		if addr == "" {
			addr = ":1705"
		}

		logger.Infof("server started, listening on %s", addr)
		if err := http.ListenAndServe(addr, srv); err != nil {
			logger.Error("server stopped:", err)
		}
	},
}
