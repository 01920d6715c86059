package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/domain"
	"github.com/vbonduro/urbanhomes/internal/photostore"
)

func (a *app) propertiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"property", "props"},
		Short:   "List and manage property listings",
	}
	cmd.AddCommand(a.propertiesListCmd(), a.propertiesGetCmd(), a.propertiesDeleteCmd(), a.propertiesUploadCmd())
	return cmd
}

func (a *app) propertiesListCmd() *cobra.Command {
	var (
		f      domain.PropertyFilter
		typ    string
		status string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.Type = domain.PropertyType(strings.ToUpper(typ))
			f.Status = domain.PropertyStatus(strings.ToUpper(status))
			if f.Type != "" && !f.Type.Valid() {
				return fmt.Errorf("unknown property type %q", typ)
			}
			if f.Status != "" && !f.Status.Valid() {
				return fmt.Errorf("unknown property status %q", status)
			}

			list, err := a.props.List(cmd.Context(), f)
			if err != nil {
				return a.check(err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, list)
			}
			if len(list.Properties) == 0 {
				fmt.Fprintln(out, "No properties found")
				return nil
			}
			rows := make([][]string, 0, len(list.Properties))
			for _, p := range list.Properties {
				rows = append(rows, []string{p.ID, truncate(p.Title, 40), string(p.Type), string(p.Status), money(p.Price), p.City})
			}
			printTable(out, []string{"ID", "Title", "Type", "Status", "Price", "City"}, rows)
			pg := list.Pagination
			printFooter(out, "Page %d of %d (%d properties)", pg.Page, pg.Pages, pg.Total)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&typ, "type", "", "LAND, RESIDENTIAL, COMMERCIAL or INDUSTRIAL")
	flags.StringVar(&status, "status", "", "AVAILABLE, SOLD, RESERVED or UNDER_CONSTRUCTION")
	flags.StringVar(&f.City, "city", "", "city contains")
	flags.StringVar(&f.MinPrice, "min-price", "", "minimum price")
	flags.StringVar(&f.MaxPrice, "max-price", "", "maximum price")
	flags.IntVar(&f.Page, "page", 1, "page number")
	flags.IntVar(&f.Limit, "limit", 0, "page size (backend default when 0)")
	flags.BoolVar(&asJSON, "json", false, "print the raw JSON response")
	return cmd
}

func (a *app) propertiesGetCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.props.Get(cmd.Context(), args[0])
			if err != nil {
				if apiclient.IsNotFound(err) {
					return fmt.Errorf("property %s not found", args[0])
				}
				return a.check(err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, p)
			}
			fields := [][2]string{
				{"ID", p.ID},
				{"Title", p.Title},
				{"Type", string(p.Type)},
				{"Status", string(p.Status)},
				{"Price", money(p.Price)},
				{"Area", strconv.FormatFloat(p.Area, 'f', -1, 64) + " sq m"},
				{"Location", p.Location},
				{"Address", p.Address},
				{"City", p.City},
				{"State", p.State},
			}
			if p.Bedrooms != nil {
				fields = append(fields, [2]string{"Bedrooms", strconv.Itoa(*p.Bedrooms)})
			}
			if p.Bathrooms != nil {
				fields = append(fields, [2]string{"Bathrooms", strconv.Itoa(*p.Bathrooms)})
			}
			fields = append(fields, [2]string{"Images", strconv.Itoa(len(p.Images))})
			printFields(out, fields)
			if p.Description != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, p.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON response")
	return cmd
}

func (a *app) propertiesDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			id := args[0]
			if !yes {
				p, err := a.props.Get(cmd.Context(), id)
				if err != nil {
					if apiclient.IsNotFound(err) {
						return fmt.Errorf("property %s not found", id)
					}
					return a.check(err)
				}
				ok, err := confirm(cmd, fmt.Sprintf("Delete %q? [y/N] ", p.Title))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}
			if err := a.props.Delete(cmd.Context(), id); err != nil {
				if apiclient.IsNotFound(err) {
					return fmt.Errorf("property %s not found", id)
				}
				return a.check(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted property %s\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) propertiesUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <id> <image>...",
		Short: "Upload images to a property",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			files := make([]apiclient.File, 0, len(args)-1)
			for _, path := range args[1:] {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				files = append(files, apiclient.File{
					Name:     filepath.Base(path),
					MimeType: photostore.MIMEForExt(strings.ToLower(filepath.Ext(path))),
					Data:     bytes.NewReader(data),
				})
			}
			images, err := a.props.UploadImages(cmd.Context(), args[0], files)
			if err != nil {
				if apiclient.Classify(err) == apiclient.OutcomeAuthExpired {
					return a.check(err)
				}
				return fmt.Errorf("upload images: %s", apiclient.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d image(s) to %s\n", len(images), args[0])
			return nil
		},
	}
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	answer, err := readLine(cmd.InOrStdin())
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
