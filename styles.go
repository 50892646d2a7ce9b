package htmlfix

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

var (
	cssUnicodeChar = regexp.MustCompile(`\\[0-9a-f]{1,6} ?`)

	cssPrefixes = [...]string{
		"-webkit-", "-moz-", "-ms-", "-o-", "mso-", "-xv-", "-atsc-", "-wap-",
		"-khtml-", "prince-", "-ah-", "-hp-", "-ro-", "-rim-", "-tc-",
	}

	// Values which make a browser execute something.
	cssUnsafeValues = [...]string{
		"expression(", "javascript:", "vbscript:", "livescript:", "data:text",
		"-moz-binding", "behavior:",
	}
)

// sanitizeStyleAttr returns safe declarations of style attribute. Returned
// empty string means style attribute should be removed.
func (self *Policy) sanitizeStyleAttr(style string) string {
	if self.unsafeStyles {
		return style
	}

	// Add semi-colon to end to fix parsing issue
	style = strings.TrimRight(style, " ")
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}

	decs, err := parser.ParseDeclarations(style)
	if err != nil {
		return ""
	}

	clean := make([]string, 0, len(decs))
	for _, dec := range decs {
		if unsafeDeclaration(dec) {
			continue
		}
		s := dec.Property + ": " + dec.Value
		if dec.Important {
			s += " !important"
		}
		clean = append(clean, s)
	}
	return strings.Join(clean, "; ")
}

// sanitizeStylesheet parses content of style element and serializes it back
// without unsafe declarations and @import rules.
func (self *Policy) sanitizeStylesheet(text string) string {
	if self.unsafeStyles {
		return text
	}

	sheet, err := parser.Parse(text)
	if err != nil {
		return ""
	}
	sheet.Rules = sanitizeRules(sheet.Rules)
	return sheet.String()
}

func sanitizeRules(rules []*css.Rule) []*css.Rule {
	return slices.DeleteFunc(rules, func(r *css.Rule) bool {
		if r.Kind == css.AtRule {
			name := strings.TrimPrefix(strings.ToLower(r.Name), "@")
			if name == "import" {
				return true
			}
		}
		r.Declarations = slices.DeleteFunc(r.Declarations, unsafeDeclaration)
		r.Rules = sanitizeRules(r.Rules)
		return false
	})
}

func unsafeDeclaration(dec *css.Declaration) bool {
	property := strings.ToLower(dec.Property)
	for _, prefix := range cssPrefixes {
		property = strings.TrimPrefix(property, prefix)
	}

	switch property {
	case "behavior", "binding":
		return true
	}

	value, err := removeUnicode(strings.ToLower(dec.Value))
	if err != nil {
		return true
	}
	value = strings.Join(strings.Fields(value), "")
	for _, s := range cssUnsafeValues {
		if strings.Contains(value, s) {
			return true
		}
	}
	return false
}

// removeUnicode decodes CSS escapes like \65 so they can't hide unsafe values.
func removeUnicode(value string) (string, error) {
	substitutedValue := value
	currentLoc := cssUnicodeChar.FindStringIndex(substitutedValue)
	for currentLoc != nil {
		character := substitutedValue[currentLoc[0]+1 : currentLoc[1]]
		character = strings.TrimSpace(character)
		if len(character) < 4 {
			character = strings.Repeat("0", 4-len(character)) + character
		} else {
			for len(character) > 4 {
				if character[0] != '0' {
					character = ""
					break
				}
				character = character[1:]
			}
		}

		translatedChar, err := strconv.Unquote(`"\u` + character + `"`)
		if err != nil {
			return "", err //nolint:wrapcheck // only checked for nil
		}
		translatedChar = strings.TrimSpace(translatedChar)
		substitutedValue = substitutedValue[0:currentLoc[0]] + translatedChar +
			substitutedValue[currentLoc[1]:]
		currentLoc = cssUnicodeChar.FindStringIndex(substitutedValue)
	}
	return substitutedValue, nil
}
