// Package flags defines the beacon-node-specific CLI flags: the ones that
// configure genesis sourcing, weak subjectivity, the RPC/gRPC surface and
// the deposit-contract watcher. Flags shared with other binaries in this
// module (data dir, verbosity, logging, monitoring) live in shared/cmd.
package flags

import "github.com/urfave/cli/v2"

var (
	// Web3ProviderFlag defines a flag for a mainchain RPC endpoint.
	Web3ProviderFlag = &cli.StringFlag{
		Name:  "web3provider",
		Usage: "A mainchain web3 provider string endpoint. Can either be an IPC file string or a WebSocket endpoint.",
		Value: "",
	}
	// HTTPWeb3ProviderFlag provides an HTTP access endpoint to an ETH 1.0 RPC.
	HTTPWeb3ProviderFlag = &cli.StringFlag{
		Name:  "http-web3provider",
		Usage: "A mainchain web3 provider string http endpoint",
	}
	// DepositContractFlag defines a flag for the deposit contract address.
	DepositContractFlag = &cli.StringFlag{
		Name:  "deposit-contract",
		Usage: "Deposit contract address. The Eth1Monitor watches logs from this contract to determine when validators are eligible to participate.",
	}
	// ContractDeploymentBlock is the block in which the eth1 deposit
	// contract was deployed.
	ContractDeploymentBlock = &cli.IntFlag{
		Name:  "contract-deployment-block",
		Usage: "The eth1 block in which the deposit contract was deployed.",
		Value: 1960177,
	}
	// ChainID defines the chain id of the deposit contract's network.
	ChainID = &cli.Uint64Flag{
		Name:  "chain-id",
		Usage: "Sets the chain id of the beacon chain.",
	}
	// NetworkID defines the network id of the deposit contract's network.
	NetworkID = &cli.Uint64Flag{
		Name:  "network-id",
		Usage: "Sets the network id of the beacon chain.",
	}

	// FinalizedCheckpointState defines a flag for a path to a finalized
	// checkpoint state, the first genesis source in priority (spec §4.7).
	FinalizedCheckpointState = &cli.StringFlag{
		Name:  "checkpoint-state",
		Usage: "Rather than syncing from genesis, start from this finalized checkpoint state file.",
	}
	// FinalizedCheckpointBlock is the block matching FinalizedCheckpointState,
	// required unless the state's slot is 0.
	FinalizedCheckpointBlock = &cli.StringFlag{
		Name:  "checkpoint-block",
		Usage: "Block matching --checkpoint-state; required unless the checkpoint state's slot is 0.",
	}
	// WeakSubjectivityCheckpoint pins the weak-subjectivity check to a
	// specific block_root:epoch pair (format: "0x...:123").
	WeakSubjectivityCheckpoint = &cli.StringFlag{
		Name:  "weak-subjectivity-checkpoint",
		Usage: "Weak subjectivity checkpoint in `block_root:epoch_number` format, used to assert the synced checkpoint is not stale.",
	}
	// Eth2NetworkFlag selects a named network's baked-in genesis metadata
	// (the second genesis source in priority).
	Eth2NetworkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "Use the baked-in configuration and genesis metadata for a named network (e.g. mainnet, prater).",
	}

	// RPCHost defines the host on which the RPC server should listen.
	RPCHost = &cli.StringFlag{
		Name:  "rpc-host",
		Usage: "Host on which the RPC server should listen",
		Value: "127.0.0.1",
	}
	// RPCPort defines a beacon node RPC port to open.
	RPCPort = &cli.IntFlag{
		Name:  "rpc-port",
		Usage: "RPC port exposed by a beacon node",
		Value: 4000,
	}
	// RPCMaxPageSize defines the maximum numbers per page returned in RPC
	// responses from this beacon node.
	RPCMaxPageSize = &cli.IntFlag{
		Name:  "rpc-max-page-size",
		Usage: "Max number of items returned per page in RPC responses for paginated endpoints",
		Value: 500,
	}
	// DisableRPC disables the RPC server entirely.
	DisableRPC = &cli.BoolFlag{
		Name:  "disable-rpc",
		Usage: "Disables the RPC server for this node.",
	}
	// CertFlag defines a flag for the node's TLS certificate.
	CertFlag = &cli.StringFlag{
		Name:  "tls-cert",
		Usage: "Certificate for secure gRPC. Pass this and the tls-key flag in order to use gRPC securely.",
	}
	// KeyFlag defines a flag for the node's TLS key.
	KeyFlag = &cli.StringFlag{
		Name:  "tls-key",
		Usage: "Key for secure gRPC. Pass this and the tls-cert flag in order to use gRPC securely.",
	}
	// GRPCGatewayPort enables a gRPC gateway to be exposed over HTTP/JSON.
	GRPCGatewayPort = &cli.IntFlag{
		Name:  "grpc-gateway-port",
		Usage: "Enable gRPC gateway for JSON requests",
	}

	// MinSyncPeers specifies the required number of successful peer
	// handshakes before starting to sync with external peers.
	MinSyncPeers = &cli.IntFlag{
		Name:  "min-sync-peers",
		Usage: "The required number of valid peers to connect with before syncing.",
		Value: 3,
	}
	// SetGCPercent is the percentage of current live allocations at which
	// the garbage collector is to run.
	SetGCPercent = &cli.IntFlag{
		Name:  "gc-percent",
		Usage: "The percentage of freshly allocated data to live data at which the GC will run again.",
		Value: 100,
	}
	// RequestSlotGC forces a full GC cycle between slot frames (spec §4.5
	// step 9); off by default since it trades latency for memory hygiene.
	RequestSlotGC = &cli.BoolFlag{
		Name:  "request-slot-gc",
		Usage: "Request a full GC cycle at the end of every slot tick. Trades tail latency for lower steady-state memory.",
	}
	// UnsafeSync starts the beacon node from the previously saved head
	// state and syncs from there instead of re-verifying finalization.
	UnsafeSync = &cli.BoolFlag{
		Name:  "unsafe-sync",
		Usage: "Starts the beacon node with the previously saved head state instead of the finalized state.",
	}
	// StopAtEpoch halts the node after reaching the given epoch; 0 disables.
	StopAtEpoch = &cli.Uint64Flag{
		Name:  "stop-at-epoch",
		Usage: "Halt the node once this epoch is reached; 0 (default) runs forever.",
	}

	// InteropGenesisStateFlag loads a local interop genesis state file
	// instead of any of the three production genesis sources.
	InteropGenesisStateFlag = &cli.StringFlag{
		Name:  "interop-genesis-state",
		Usage: "Load a SSZ genesis state file for interop/e2e testing.",
	}
	// InteropNumValidatorsFlag generates a local interop genesis state with
	// this many validators instead of reading one from disk.
	InteropNumValidatorsFlag = &cli.Uint64Flag{
		Name:  "interop-num-validators",
		Usage: "Number of validators to deterministically generate for interop testing.",
	}
	// InteropGenesisTimeFlag sets the genesis time for an interop genesis
	// state; 0 uses "now".
	InteropGenesisTimeFlag = &cli.Uint64Flag{
		Name:  "interop-genesis-time",
		Usage: "Unix timestamp to use as genesis time for an interop genesis state; 0 means now.",
	}

	// GraffitiFlag sets the string proposers append to blocks they produce;
	// purely cosmetic, carried through from spec §9 Configuration.
	GraffitiFlag = &cli.StringFlag{
		Name:  "graffiti",
		Usage: "String to include in proposed blocks.",
	}
	// NodeNameFlag is an operator-chosen label surfaced over RPC.
	NodeNameFlag = &cli.StringFlag{
		Name:  "node-name",
		Usage: "Name to identify this beacon node by in logs and over RPC.",
	}
)
