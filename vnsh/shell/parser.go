package shell

import (
	"github.com/ZanzyTHEbar/vnsh/vnsh/common"
)

// Parser decodes commands from a flat token stream.
type Parser struct {
	validator *common.ValidationUtils
}

// NewParser creates a parser enforcing maxNameLength on mkdir and touch names.
func NewParser(maxNameLength int) *Parser {
	return &Parser{validator: common.NewValidationUtils(maxNameLength)}
}

// Parse decodes the command whose keyword sits at tokens[pos]. It returns the
// command and how many tokens it consumed, keyword included. Errors are coded
// INVALID_INPUT and wrap one of the common parse sentinels.
func (p *Parser) Parse(tokens []string, pos int) (Command, int, error) {
	if pos < 0 || pos >= len(tokens) {
		return nil, 0, common.UnrecognizedToken("", pos)
	}

	switch keyword := tokens[pos]; keyword {
	case KeywordQuit:
		return Quit{}, 1, nil

	case KeywordPwd:
		return Pwd{}, 1, nil

	case KeywordLs:
		return p.parseList(tokens, pos)

	case KeywordMkdir:
		name, err := p.validator.ValidateName(keyword, tokens, pos+1)
		if err != nil {
			return nil, 0, err
		}
		return MakeDir{Name: name}, 2, nil

	case KeywordCd:
		target, err := p.validator.ValidateArgument(keyword, tokens, pos+1)
		if err != nil {
			return nil, 0, err
		}
		return ChangeDir{Target: target}, 2, nil

	case KeywordTouch:
		name, err := p.validator.ValidateName(keyword, tokens, pos+1)
		if err != nil {
			return nil, 0, err
		}
		return Touch{Name: name}, 2, nil

	default:
		return nil, 0, common.UnrecognizedToken(keyword, pos)
	}
}

// parseList looks ahead one token: "-r" and non-reserved tokens are consumed,
// anything else is left for the next command.
func (p *Parser) parseList(tokens []string, pos int) (Command, int, error) {
	if pos+1 >= len(tokens) {
		return List{Mode: ListCurrent}, 1, nil
	}

	next := tokens[pos+1]
	switch {
	case next == FlagRecursive:
		return List{Mode: ListRecursive}, 2, nil
	case !common.IsReserved(next):
		return List{Mode: ListPath, Path: next}, 2, nil
	default:
		return List{Mode: ListCurrent}, 1, nil
	}
}
