package schema

// Custom string types for type safety.
type (
	// ExperienceLevel represents how seasoned the developer is.
	ExperienceLevel string

	// Difficulty represents the difficulty tier inferred from issue labels.
	Difficulty string

	// FilterMode represents a display filter applied after ranking.
	FilterMode string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All experience levels supported.
const (
	Beginner     ExperienceLevel = "beginner" // default
	Intermediate ExperienceLevel = "intermediate"
	Advanced     ExperienceLevel = "advanced"
)

// All difficulty tiers.
const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// All filter modes supported.
const (
	AllFilter           FilterMode = "all" // default
	BeginnerFilter      FilterMode = "beginner"
	GSoCFilter          FilterMode = "gsoc"
	HacktoberfestFilter FilterMode = "hacktoberfest"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	MemoryBackend     DatabaseBackend = "memory"
	NoneBackend       DatabaseBackend = "none"
)

// ValidExperienceLevels lists all valid experience levels.
var ValidExperienceLevels = map[ExperienceLevel]struct{}{
	Beginner:     {},
	Intermediate: {},
	Advanced:     {},
}

// ValidFilterModes lists all valid filter modes.
var ValidFilterModes = map[FilterMode]struct{}{
	AllFilter:           {},
	BeginnerFilter:      {},
	GSoCFilter:          {},
	HacktoberfestFilter: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	MemoryBackend:     {},
	NoneBackend:       {},
}
