package node

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	types "github.com/prysmaticlabs/eth2-types"
)

// fileCheckpointLoader reads a finalized checkpoint state/block pair from a
// flat "key=value" file on disk. The consensus layer's actual SSZ state
// encoding is out of this core's scope (spec §1); this loader reads only
// the handful of fields resolveGenesis and the weak-subjectivity check need.
type fileCheckpointLoader struct{}

func newFileCheckpointLoader() *fileCheckpointLoader {
	return &fileCheckpointLoader{}
}

func (fileCheckpointLoader) LoadFinalizedCheckpointState(path string) (*GenesisState, error) {
	fields, err := readKeyValueFile(path)
	if err != nil {
		return nil, err
	}
	slot, err := parseUintField(fields, "slot")
	if err != nil {
		return nil, err
	}
	genesisTimeUnix, err := parseUintField(fields, "genesis_time")
	if err != nil {
		return nil, err
	}
	activeValidators, err := parseUintField(fields, "active_validator_count")
	if err != nil {
		return nil, err
	}
	return &GenesisState{
		Slot:                 types.Slot(slot),
		GenesisTime:          time.Unix(int64(genesisTimeUnix), 0).UTC(),
		ActiveValidatorCount: activeValidators,
	}, nil
}

func (fileCheckpointLoader) LoadFinalizedCheckpointBlock(path string) (*GenesisBlock, error) {
	fields, err := readKeyValueFile(path)
	if err != nil {
		return nil, err
	}
	slot, err := parseUintField(fields, "slot")
	if err != nil {
		return nil, err
	}
	return &GenesisBlock{Slot: types.Slot(slot)}, nil
}

func readKeyValueFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", path)
	}
	defer f.Close()

	fields := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		fields[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

func parseUintField(fields map[string]string, key string) (uint64, error) {
	v, ok := fields[key]
	if !ok {
		return 0, errors.Errorf("missing required field %q", key)
	}
	return strconv.ParseUint(v, 10, 64)
}
