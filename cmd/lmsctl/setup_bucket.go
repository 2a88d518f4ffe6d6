package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/f2expert/f2expert-sub001/infrastructure/storage"
)

var setupBucketCmd = &cobra.Command{
	Use:   "setup-bucket",
	Short: "Make course thumbnails and avatars publicly readable",
	Long: `Apply a bucket policy granting anonymous read on the public upload
prefixes of the S3 bucket. The bucket is created when missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s3Storage, err := container.NewS3Storage()
		if err != nil {
			return err
		}
		if err := s3Storage.EnsurePublicRead(cmd.Context()); err != nil {
			return err
		}
		cmd.Printf("Bucket %s: public read on %s\n",
			container.Config.Storage.S3.Bucket, strings.Join(storage.PublicPrefixes, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupBucketCmd)
}
