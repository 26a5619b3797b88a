package cmd

import "github.com/crytic/u256diff/fuzzing/config"

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = config.DefaultProjectConfigFilename
