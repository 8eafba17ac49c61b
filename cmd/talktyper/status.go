package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/talktyper/pkg/adapters/fs"
	"github.com/aretw0/talktyper/pkg/core"
)

var statusDiagram bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the store and its storage",
	Long:  `Status prints the store and storage state as JSON, or as a Mermaid diagram with --diagram.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		store, err := openStore(ctx)
		if err != nil {
			fatal("Error opening notes", err)
		}
		defer store.Close()

		storeState, _ := store.State().(core.StoreState)
		var storageState any
		if st, ok := store.Storage().(introspection.Introspectable); ok {
			storageState = st.State()
		}

		if statusDiagram {
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "talktyper"
			config.SecondaryLabel = "Note Store"
			fmt.Println(introspection.TreeDiagram(buildStatusTree(storeState, storageState), config))
			return
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(map[string]any{
			store.ComponentType(): storeState,
			"storage":             storageState,
		}); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

type statusNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []statusNode
}

// buildStatusTree lays out the store over its storage. Status values must
// match the classes of introspection.DefaultStyles().
func buildStatusTree(store core.StoreState, storage any) statusNode {
	storeStatus := "running"
	if store.Dirty {
		storeStatus = "failed"
	}

	storageNode := statusNode{
		Name:     "Storage",
		Status:   "running",
		Metadata: map[string]string{"type": store.StorageType},
	}
	if st, ok := storage.(fs.StorageState); ok {
		storageNode.Metadata["path"] = st.Path
		watcherStatus := "suspended"
		if st.WatcherActive {
			watcherStatus = "running"
		}
		storageNode.Children = []statusNode{{
			Name:     "Watcher",
			Status:   watcherStatus,
			Metadata: map[string]string{"type": "goroutine"},
		}}
	}

	return statusNode{
		Name:   "Store",
		Status: storeStatus,
		Metadata: map[string]string{
			"type":  "container",
			"key":   store.Key,
			"notes": fmt.Sprintf("%d", store.Notes),
			"codec": store.Codec,
		},
		Children: []statusNode{storageNode},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusDiagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
}
