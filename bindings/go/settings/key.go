package settings

import (
	"fmt"
	"strings"
)

// Key is a service setting the resolution engine reads.
type Key int

const (
	KeyUnknown Key = iota
	TeamProjectCollectionUrl
	WorkspaceName
	WorkspaceOwner
	FileShareRootPath
	SubversionRootPath
	BinaryTeamProjectCollectionUrl
	BinaryRepositoryTeamProject
	// DependencyDefinitionFileNameList is a semicolon separated list of file
	// names a nested dependency definition document may have.
	DependencyDefinitionFileNameList
	// DownloadConcurrency bounds the number of components downloaded or
	// cleaned up in parallel.
	DownloadConcurrency
)

var keyNames = map[Key]string{
	TeamProjectCollectionUrl:         "TeamProjectCollectionUrl",
	WorkspaceName:                    "WorkspaceName",
	WorkspaceOwner:                   "WorkspaceOwner",
	FileShareRootPath:                "FileShareRootPath",
	SubversionRootPath:               "SubversionRootPath",
	BinaryTeamProjectCollectionUrl:   "BinaryTeamProjectCollectionUrl",
	BinaryRepositoryTeamProject:      "BinaryRepositoryTeamProject",
	DependencyDefinitionFileNameList: "DependencyDefinitionFileNameList",
	DownloadConcurrency:              "DownloadConcurrency",
}

// Keys returns all known keys in declaration order.
func Keys() []Key {
	return []Key{
		TeamProjectCollectionUrl,
		WorkspaceName,
		WorkspaceOwner,
		FileShareRootPath,
		SubversionRootPath,
		BinaryTeamProjectCollectionUrl,
		BinaryRepositoryTeamProject,
		DependencyDefinitionFileNameList,
		DownloadConcurrency,
	}
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// ParseKey parses a key name case-insensitively.
func ParseKey(name string) (Key, error) {
	for _, k := range Keys() {
		if strings.EqualFold(keyNames[k], strings.TrimSpace(name)) {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
