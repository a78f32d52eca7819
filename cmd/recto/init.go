package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

const configTemplate = `server:
  host: localhost
  port: 5000

solr:
  endpoint: %s
  text_field: extracted_text
  queries: queries.yml

repository:
  endpoint: %s
  prefix: "%s"

image:
  endpoint: %s

iiif:
  base_url: %s
  thumbnail_width: 250
`

const queriesTemplate = `# Structural queries. $-prefixed keys drive the manifest shape;
# $*-prefixed keys take a page URI argument at runtime.
"$uri": .id
"$label": .title
"$page_uris": .pages[]?.id
"$page_image_ids": .pages[]?.image
"$*page_label": '.pages[]? | select(.id == $uri) | .label'

# Descriptive metadata, shown in document order.
Title: .title
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a recto.yml and starter queries file",
	Long:  "Interactively create recto.yml and queries.yml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range []string{"recto.yml", "queries.yml"} {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
		}

		answers := struct {
			Solr       string `survey:"solr"`
			Repository string `survey:"repository"`
			Prefix     string `survey:"prefix"`
			Image      string `survey:"image"`
			BaseURL    string `survey:"base_url"`
		}{}

		questions := []*survey.Question{
			{
				Name: "solr",
				Prompt: &survey.Input{
					Message: "Solr core URL:",
					Default: "http://localhost:8983/solr/core1",
				},
				Validate: survey.Required,
			},
			{
				Name: "repository",
				Prompt: &survey.Input{
					Message: "Repository base URL:",
					Default: "http://localhost:8080/fcrepo/rest",
				},
				Validate: survey.Required,
			},
			{
				Name: "prefix",
				Prompt: &survey.Input{
					Message: "Identifier prefix:",
					Default: "fcrepo:",
				},
				Validate: survey.Required,
			},
			{
				Name: "image",
				Prompt: &survey.Input{
					Message: "IIIF Image API base URL:",
					Default: "http://localhost:8182/iiif/2",
				},
				Validate: survey.Required,
			},
			{
				Name: "base_url",
				Prompt: &survey.Input{
					Message: "Public base URL of this service:",
					Default: "http://localhost:5000",
				},
				Validate: survey.Required,
			},
		}

		if err := survey.Ask(questions, &answers); err != nil {
			return err
		}

		content := fmt.Sprintf(configTemplate,
			answers.Solr, answers.Repository, answers.Prefix, answers.Image, answers.BaseURL)
		if err := os.WriteFile("recto.yml", []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write recto.yml: %w", err)
		}
		if err := os.WriteFile("queries.yml", []byte(queriesTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write queries.yml: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created recto.yml and queries.yml")
		fmt.Fprintln(cmd.OutOrStdout(), "Edit queries.yml to match your index schema, then run: recto check")
		return nil
	},
}
