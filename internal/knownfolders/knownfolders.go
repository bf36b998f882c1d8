// Package knownfolders maps Windows KNOWNFOLDERID GUIDs, as they appear at
// the start of UserAssist program paths, to folder names.
package knownfolders

import (
	"fmt"
	"maps"
	"regexp"
	"strings"
)

// Table is an immutable GUID -> folder name mapping. Keys are braced,
// upper-case GUID strings and lookups are exact.
type Table struct {
	m map[string]string
}

var guidPattern = regexp.MustCompile(`^\{[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}\}$`)

var builtin = map[string]string{
	"{1AC14E77-02E7-4E5D-B744-2EB1AE5198B7}": "System",
	"{D65231B0-B2F1-4857-A4CE-A8E7C6EA7D27}": "SystemX86",
	"{F38BF404-1D43-42F2-9305-67DE0B28FC23}": "Windows",
	"{8AD10C31-2ADB-4296-A8F7-E4701232C972}": "ResourceDir",
	"{FD228CB7-AE11-4AE3-864C-16F3910AB8FE}": "Fonts",
	"{905E63B6-C1BF-494E-B29C-65B732D3D21A}": "ProgramFiles",
	"{6D809377-6AF0-444B-8957-A3773F02200E}": "ProgramFilesX64",
	"{7C5A40EF-A0FB-4BFC-874A-C0F2E0B9FA8E}": "ProgramFilesX86",
	"{F7F1ED05-9F6D-47A2-AAAE-29D317C6F066}": "ProgramFilesCommon",
	"{6365D5A7-0F0D-45E5-87F6-0DA56B6A4F7D}": "ProgramFilesCommonX64",
	"{DE974D24-D9C6-4D3E-BF91-F4455120B917}": "ProgramFilesCommonX86",
	"{5CD7AEE2-2219-4A67-B85D-6C9CE15660CB}": "UserProgramFiles",
	"{62AB5D82-FDC1-4DC3-A9DD-070D1D495D97}": "ProgramData",
	"{A77F5D77-2E2B-44C3-A6A2-ABA601054A51}": "Programs",
	"{0139D44E-6AFE-49F2-8690-3DAFCAE6FFB8}": "CommonPrograms",
	"{625B53C3-AB48-4EC1-BA1F-A1EF4146FC19}": "StartMenu",
	"{A4115719-D62E-491D-AA7C-E74B8BE3B067}": "CommonStartMenu",
	"{B97D20BB-F46A-4C97-BA10-5E3608430854}": "Startup",
	"{82A5EA35-D9CD-47C5-9629-E15D2F714E6E}": "CommonStartup",
	"{724EF170-A42D-4FEF-9F26-B60E846FBA4F}": "AdminTools",
	"{D0384E7D-BAC3-4797-8F14-CBA229B392B5}": "CommonAdminTools",
	"{1E87508D-89C2-42F0-8A7E-645A0F50CA58}": "AppsFolder",
	"{52A4F021-7B75-48A9-9F6B-4B87A210BC8F}": "QuickLaunch",
	"{9E3995AB-1F9C-4F13-B827-48B24B6C7174}": "UserPinned",
	"{5E6C858F-0E22-4760-9AFE-EA3317B67173}": "Profile",
	"{0762D272-C50A-4BB0-A382-697DCD729B80}": "UserProfiles",
	"{B4BFCC3A-DB2C-424C-B029-7FE99A87C641}": "Desktop",
	"{FDD39AD0-238F-46AF-ADB4-6C85480369C7}": "Documents",
	"{374DE290-123F-4565-9164-39C4925E467B}": "Downloads",
	"{4BD8D571-6D19-48D3-BE97-422220080E43}": "Music",
	"{33E28130-4E1E-4676-835A-98395C3BC3BB}": "Pictures",
	"{18989B1D-99B5-455B-841C-AB7C74E4DDFC}": "Videos",
	"{BFB9D5E0-C6A9-404C-B2B2-AE6DB6AF4968}": "Links",
	"{56784854-C6CB-462B-8169-88E350ACB882}": "Contacts",
	"{4C5C32FF-BB9D-43B0-B5B4-2D72E54EAAA4}": "SavedGames",
	"{A52BBA46-E9E1-435F-B3D9-28DAA648C0F6}": "OneDrive",
	"{AB5FB87B-7CE2-4F83-915D-550846C9537B}": "CameraRoll",
	"{B7BEDE81-DF94-4682-A7D8-57A52620B86F}": "Screenshots",
	"{3EB685DB-65F9-4CF6-A03A-E3EF65729F3D}": "RoamingAppData",
	"{F1B32785-6FBA-4FCF-9D55-7B8E7F157091}": "LocalAppData",
	"{A520A1A4-1780-4FF6-BD18-167343C5AF16}": "LocalAppDataLow",
	"{8983036C-27C0-404B-8F08-102D10DCFD74}": "SendTo",
	"{AE50C081-EBD2-438A-8655-8A092E34987A}": "Recent",
	"{1777F761-68AD-4D8A-87BD-30B759FA33DD}": "Favorites",
	"{D9DC8A3B-B784-432E-A781-5A1130A75963}": "History",
	"{352481E8-33BE-4251-BA85-6007CAEDCF9D}": "InternetCache",
	"{2B0F765D-C0E9-4171-908E-08A611B84FF6}": "Cookies",
	"{A63293E8-664E-48DB-A079-DF759E0509F7}": "Templates",
	"{B94237E7-57AC-4347-9151-B08C6C32D1F7}": "CommonTemplates",
	"{DFDF76A2-C82A-4D63-906A-5644AC457385}": "Public",
	"{C4AA340D-F20F-4863-AFEF-F87EF2E6BA25}": "PublicDesktop",
	"{ED4824AF-DCE4-45A8-81E2-FC7965083634}": "PublicDocuments",
	"{3D644C9B-1FB8-4F30-9B45-F670235F79C0}": "PublicDownloads",
	"{3214FAB5-9757-4298-BB61-92A9DEAA44FF}": "PublicMusic",
	"{B6EBFB86-6907-413C-9AF7-4FC2ABF07CC5}": "PublicPictures",
	"{2400183A-6185-49FB-A2D8-4A392A602BA3}": "PublicVideos",
}

var defaultTable = Table{m: builtin}

// Default returns the built-in table.
func Default() Table { return defaultTable }

// Lookup returns the folder name for an exact GUID key.
func (t Table) Lookup(guid string) (string, bool) {
	name, ok := t.m[guid]
	return name, ok
}

// Len reports the number of entries.
func (t Table) Len() int { return len(t.m) }

// Merge returns a new table with extra layered over t. Keys are normalised
// to the braced upper-case form; entries already in t win so built-in names
// cannot be replaced or removed.
func (t Table) Merge(extra map[string]string) (Table, error) {
	if len(extra) == 0 {
		return t, nil
	}
	m := maps.Clone(t.m)
	for guid, name := range extra {
		key, err := Normalize(guid)
		if err != nil {
			return Table{}, err
		}
		if strings.TrimSpace(name) == "" {
			return Table{}, fmt.Errorf("known folder %s: empty name", key)
		}
		if _, ok := m[key]; ok {
			continue
		}
		m[key] = name
	}
	return Table{m: m}, nil
}

// Normalize converts "5e6c858f-0e22-4760-9afe-ea3317b67173" or its braced
// form to "{5E6C858F-0E22-4760-9AFE-EA3317B67173}".
func Normalize(guid string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(guid))
	if !strings.HasPrefix(s, "{") {
		s = "{" + s + "}"
	}
	if !guidPattern.MatchString(s) {
		return "", fmt.Errorf("known folder %q: not a GUID", guid)
	}
	return s, nil
}
