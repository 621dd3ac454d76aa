package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/emrekir/vidprobe/internal/core/media"
)

func printInfo(info *media.VideoInfo) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgWhite, color.Bold)

	title.Println(info.Title)
	label.Print("  Platform:   ")
	fmt.Println(info.Platform)
	label.Print("  Duration:   ")
	fmt.Println(info.DurationString)
	label.Print("  Quality:    ")
	fmt.Printf("%s (%s)\n", info.Resolution, info.Ext)
	if info.Uploader != "" {
		label.Print("  Uploader:   ")
		fmt.Println(info.Uploader)
	}
	if info.FilesizeMB != nil {
		label.Print("  Size:       ")
		if info.SizeEstimated {
			fmt.Printf("~%.1f MB\n", *info.FilesizeMB)
		} else {
			fmt.Printf("%.1f MB\n", *info.FilesizeMB)
		}
	}
	label.Print("  Stream URL: ")
	fmt.Println(info.DirectURL)

	if len(info.Formats) > 0 {
		fmt.Println()
		label.Println("  Available formats:")
		for _, f := range info.Formats {
			fmt.Printf("    %-8s %-10s %s", f.FormatID, f.Resolution, f.Ext)
			if f.FilesizeMB != nil {
				fmt.Printf("  %.1f MB", *f.FilesizeMB)
			}
			fmt.Println()
		}
	}

	return nil
}
