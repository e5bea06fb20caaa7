package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/mangadl/pkg/data"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List downloaded manga",
	Long:  "Show the contents of the local download library",
	Run: func(cmd *cobra.Command, args []string) {
		repo := data.NewDuckDBRepository()

		catalogs, err := repo.ListCatalogs()
		cobra.CheckErr(err)

		if len(catalogs) == 0 {
			fmt.Println("Library is empty.")
			return
		}

		headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
		t := table.New().
			Border(lipgloss.HiddenBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return lipgloss.NewStyle().Padding(0, 1)
			}).
			Headers("Title", "Authors", "Status", "ID")

		for _, catalog := range catalogs {
			t.Row(truncateString(catalog.Title, 40), strings.Join(catalog.Authors, ", "), catalog.Status, catalog.ID.String())
		}

		fmt.Println(t)
	},
}
