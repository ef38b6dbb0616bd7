package shell

// Command is one decoded instruction. The set of implementations is closed.
type Command interface {
	// Keyword returns the token that introduces the command.
	Keyword() string
	isCommand()
}

// Command keywords
const (
	KeywordQuit  = "quit"
	KeywordPwd   = "pwd"
	KeywordLs    = "ls"
	KeywordMkdir = "mkdir"
	KeywordCd    = "cd"
	KeywordTouch = "touch"

	FlagRecursive = "-r"
)

// Quit ends the run successfully.
type Quit struct{}

// Pwd prints the current directory.
type Pwd struct{}

// ListMode selects what List prints.
type ListMode int

const (
	// ListCurrent prints the plain listing of the current directory.
	ListCurrent ListMode = iota
	// ListRecursive prints every directory under the current one, pre-order.
	ListRecursive
	// ListPath prints the plain listing of a directory resolved from the root.
	ListPath
)

func (m ListMode) String() string {
	switch m {
	case ListCurrent:
		return "current"
	case ListRecursive:
		return "recursive"
	case ListPath:
		return "path"
	default:
		return "unknown"
	}
}

// List prints directory contents. Path is only set for ListPath.
type List struct {
	Mode ListMode
	Path string
}

// MakeDir creates a directory under the current one.
type MakeDir struct {
	Name string
}

// ChangeDir moves the current directory to the parent, a child, or a path.
type ChangeDir struct {
	Target string
}

// Touch creates a file name in the current directory.
type Touch struct {
	Name string
}

func (Quit) Keyword() string      { return KeywordQuit }
func (Pwd) Keyword() string       { return KeywordPwd }
func (List) Keyword() string      { return KeywordLs }
func (MakeDir) Keyword() string   { return KeywordMkdir }
func (ChangeDir) Keyword() string { return KeywordCd }
func (Touch) Keyword() string     { return KeywordTouch }

func (Quit) isCommand()      {}
func (Pwd) isCommand()       {}
func (List) isCommand()      {}
func (MakeDir) isCommand()   {}
func (ChangeDir) isCommand() {}
func (Touch) isCommand()     {}
