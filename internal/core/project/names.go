package project

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Kinds of names accepted by ValidateName.
const (
	KindProject = "project"
	KindApp     = "app"
)

// pythonKeywords are rejected by str.isidentifier() checks in Django's
// startproject and startapp commands.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// reservedModules are importable in every environment django-admin runs in:
// the Python standard library, Django and its own dependencies, and the
// packaging tools. Django refuses any importable name, so the list is
// partial; names that clash with other installed packages are still
// rejected by django-admin when the project or app is created.
var reservedModules = func() map[string]bool {
	m := make(map[string]bool)
	for _, name := range strings.Fields(stdlibModules + " django asgiref sqlparse pip setuptools pkg_resources") {
		m[name] = true
	}
	return m
}()

// stdlibModules lists the public top-level standard library modules of
// CPython 3.8 through 3.13.
const stdlibModules = `
abc aifc antigravity argparse array ast asynchat asyncio asyncore atexit
audioop base64 bdb binascii bisect builtins bz2 cProfile calendar cgi cgitb
chunk cmath cmd code codecs codeop collections colorsys compileall concurrent
configparser contextlib contextvars copy copyreg crypt csv ctypes curses
dataclasses datetime dbm decimal difflib dis distutils doctest email encodings
ensurepip enum errno faulthandler fcntl filecmp fileinput fnmatch fractions
ftplib functools gc genericpath getopt getpass gettext glob graphlib grp gzip
hashlib heapq hmac html http idlelib imaplib imghdr imp importlib inspect io
ipaddress itertools json keyword lib2to3 linecache locale logging lzma mailbox
mailcap marshal math mimetypes mmap modulefinder msilib msvcrt multiprocessing
netrc nis nntplib nt ntpath nturl2path numbers opcode operator optparse os
ossaudiodev pathlib pdb pickle pickletools pipes pkgutil platform plistlib
poplib posix posixpath pprint profile pstats pty pwd py_compile pyclbr pydoc
pydoc_data pyexpat queue quopri random re readline reprlib resource
rlcompleter runpy sched secrets select selectors shelve shlex shutil signal
site smtpd smtplib sndhdr socket socketserver spwd sqlite3 sre_compile
sre_constants sre_parse ssl stat statistics string stringprep struct
subprocess sunau symtable sys sysconfig syslog tabnanny tarfile telnetlib
tempfile termios test textwrap this threading time timeit tkinter token
tokenize tomllib trace traceback tracemalloc tty turtle turtledemo types
typing unicodedata unittest urllib uu uuid venv warnings wave weakref
webbrowser winreg winsound wsgiref xdrlib xml xmlrpc xxsubtype zipapp zipfile
zipimport zlib zoneinfo
`

// SplitAppNames parses a comma separated list of app names. Names are
// trimmed and NFC-normalised; empty entries are dropped and duplicates
// removed, keeping the first occurrence.
func SplitAppNames(csv string) []string {
	seen := make(map[string]bool)
	apps := []string{}
	for part := range strings.SplitSeq(csv, ",") {
		name := norm.NFC.String(strings.TrimSpace(part))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		apps = append(apps, name)
	}
	return apps
}

// ValidateName checks that name is usable as a Python package created by
// django-admin. kind is KindProject or KindApp and only affects messages.
func ValidateName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: %s name is empty", ErrInvalidName, kind)
	}
	if !isIdentifier(name) {
		return fmt.Errorf("%w: %s name %q is not a valid Python identifier", ErrInvalidName, kind, name)
	}
	if pythonKeywords[name] {
		return fmt.Errorf("%w: %s name %q is a Python keyword", ErrInvalidName, kind, name)
	}
	if reservedModules[name] {
		return fmt.Errorf("%w: %s name %q conflicts with an existing Python module", ErrInvalidName, kind, name)
	}
	return nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)):
		default:
			return false
		}
	}
	return true
}

// AdminHeader derives the default admin site header from a project name:
// "my_shop" becomes "My Shop Admin".
func AdminHeader(projectName string) string {
	words := strings.ReplaceAll(projectName, "_", " ")
	words = strings.Join(strings.Fields(words), " ")
	if words == "" {
		return "Admin"
	}
	return cases.Title(language.Und).String(words) + " Admin"
}
