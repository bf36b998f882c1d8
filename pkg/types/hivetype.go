package types

import "strings"

// HiveType identifies which registry hive a file holds, derived from the file
// name Windows embeds in the base block.
type HiveType string

const (
	HiveTypeNTUser     HiveType = "ntuser.dat"
	HiveTypeUsrClass   HiveType = "usrclass.dat"
	HiveTypeSAM        HiveType = "sam"
	HiveTypeSecurity   HiveType = "security"
	HiveTypeSoftware   HiveType = "software"
	HiveTypeSystem     HiveType = "system"
	HiveTypeDefault    HiveType = "default"
	HiveTypeComponents HiveType = "components"
	HiveTypeBCD        HiveType = "bcd"
	HiveTypeAmcache    HiveType = "amcache.hve"
	HiveTypeSyscache   HiveType = "syscache.hve"
	HiveTypeUnknown    HiveType = "unknown"
)

var knownHiveTypes = map[string]HiveType{
	string(HiveTypeNTUser):     HiveTypeNTUser,
	string(HiveTypeUsrClass):   HiveTypeUsrClass,
	string(HiveTypeSAM):        HiveTypeSAM,
	string(HiveTypeSecurity):   HiveTypeSecurity,
	string(HiveTypeSoftware):   HiveTypeSoftware,
	string(HiveTypeSystem):     HiveTypeSystem,
	string(HiveTypeDefault):    HiveTypeDefault,
	string(HiveTypeComponents): HiveTypeComponents,
	string(HiveTypeBCD):        HiveTypeBCD,
	string(HiveTypeAmcache):    HiveTypeAmcache,
	string(HiveTypeSyscache):   HiveTypeSyscache,
}

// HiveTypeOf classifies a base block file name such as
// `\??\C:\Users\alice\ntuser.dat` or `emRoot\System32\Config\SAM`.
func HiveTypeOf(fileName string) HiveType {
	name := strings.TrimPrefix(strings.TrimSpace(fileName), `\??\`)
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	if t, ok := knownHiveTypes[strings.ToLower(name)]; ok {
		return t
	}
	return HiveTypeUnknown
}
