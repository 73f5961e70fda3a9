package str

import (
	"github.com/spf13/cobra"
	"github.com/strandkv/strand/cmd/util"
	"github.com/strandkv/strand/rpc/client"
)

var (
	stringsClient client.IStringsClient

	// StringCommands represents the str command group
	StringCommands = &cobra.Command{
		Use:               "str",
		Short:             "Perform string operations",
		PersistentPreRunE: setupStringsClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the str command
	util.SetupRPCClientFlags(StringCommands)

	// Add subcommands
	StringCommands.AddCommand(setCmd)
	StringCommands.AddCommand(setNXCmd)
	StringCommands.AddCommand(setEXCmd)
	StringCommands.AddCommand(pSetEXCmd)
	StringCommands.AddCommand(getCmd)
	StringCommands.AddCommand(getSetCmd)
	StringCommands.AddCommand(mGetCmd)
	StringCommands.AddCommand(mSetCmd)
	StringCommands.AddCommand(mSetNXCmd)
	StringCommands.AddCommand(incrCmd)
	StringCommands.AddCommand(decrCmd)
	StringCommands.AddCommand(incrByCmd)
	StringCommands.AddCommand(decrByCmd)
	StringCommands.AddCommand(incrByFloatCmd)
	StringCommands.AddCommand(appendCmd)
	StringCommands.AddCommand(strLenCmd)
	StringCommands.AddCommand(getRangeCmd)
	StringCommands.AddCommand(setRangeCmd)
	StringCommands.AddCommand(perfTestCmd)
}

// setupStringsClient initializes the RPC strings client
func setupStringsClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	dbID := util.GetDatabaseID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the strings client
	stringsClient, err = client.NewStringsClient(
		dbID,
		*config,
		t,
		s,
	)

	return err
}
