package compiler

import (
	"regexp"
	"strings"
)

var (
	forAliasRE    = regexp.MustCompile(`^([\s\S]*?)\s+(?:in|of)\s+([\s\S]*)$`)
	forIteratorRE = regexp.MustCompile(`,([^,\}\]]*)(?:,([^,\}\]]*))?$`)
	stripParensRE = regexp.MustCompile(`^\(|\)$`)

	simplePathRE = regexp.MustCompile(`^[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*|\['[^']*?']|\["[^"]*?"]|\[\d+]|\[[A-Za-z_$][\w$]*])*$`)
	fnExpRE      = regexp.MustCompile(`^(?:[\w$]+|\([^)]*?\))\s*=>|^function(?:\s+[\w$]+)?\s*\(`)
	fnInvokeRE   = regexp.MustCompile(`\([^)]*?\);*$`)
	camelizeRE   = regexp.MustCompile(`-(\w)`)
)

type forData struct {
	For       string
	Alias     string
	Iterator1 string
	Iterator2 string
}

// parseFor splits a v-for value such as "(item, index) in items".
func parseFor(exp string) (forData, bool) {
	m := forAliasRE.FindStringSubmatch(strings.TrimSpace(exp))
	if m == nil {
		return forData{}, false
	}
	res := forData{For: strings.TrimSpace(m[2])}
	alias := strings.TrimSpace(stripParensRE.ReplaceAllString(strings.TrimSpace(m[1]), ""))
	if im := forIteratorRE.FindStringSubmatchIndex(alias); im != nil {
		res.Alias = strings.TrimSpace(alias[:im[0]])
		res.Iterator1 = strings.TrimSpace(alias[im[2]:im[3]])
		if im[4] >= 0 {
			res.Iterator2 = strings.TrimSpace(alias[im[4]:im[5]])
		}
	} else {
		res.Alias = alias
	}
	if res.Alias == "" || res.For == "" {
		return forData{}, false
	}
	return res, true
}

func (f forData) params() string {
	params := f.Alias
	if f.Iterator1 != "" {
		params += "," + f.Iterator1
	}
	if f.Iterator2 != "" {
		params += "," + f.Iterator2
	}
	return params
}

func camelize(s string) string {
	return camelizeRE.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}

func hasModifier(mods []string, name string) bool {
	for _, m := range mods {
		if m == name {
			return true
		}
	}
	return false
}

// mustUseProp reports whether a bound attribute is set as a DOM property.
func mustUseProp(tag, typ, attr string) bool {
	switch attr {
	case "value":
		switch tag {
		case "input", "textarea", "option", "select", "progress":
			return typ != "button"
		}
	case "selected":
		return tag == "option"
	case "checked":
		return tag == "input"
	case "muted":
		return tag == "video"
	}
	return false
}

// ---------------------------------------------------------------------------
// Event handlers
// ---------------------------------------------------------------------------

var modifierGuards = map[string]string{
	"stop":    "$event.stopPropagation();",
	"prevent": "$event.preventDefault();",
	"self":    "if($event.target !== $event.currentTarget)return null;",
	"ctrl":    "if(!$event.ctrlKey)return null;",
	"shift":   "if(!$event.shiftKey)return null;",
	"alt":     "if(!$event.altKey)return null;",
	"meta":    "if(!$event.metaKey)return null;",
	"left":    "if('button' in $event && $event.button !== 0)return null;",
	"middle":  "if('button' in $event && $event.button !== 1)return null;",
	"right":   "if('button' in $event && $event.button !== 2)return null;",
}

var keyNames = map[string][]string{
	"esc":    {"Esc", "Escape"},
	"tab":    {"Tab"},
	"enter":  {"Enter"},
	"space":  {" ", "Spacebar"},
	"up":     {"Up", "ArrowUp"},
	"left":   {"Left", "ArrowLeft"},
	"right":  {"Right", "ArrowRight"},
	"down":   {"Down", "ArrowDown"},
	"delete": {"Backspace", "Delete", "Del"},
}

// listenerModifiers change how a listener is registered, not its body.
var listenerModifiers = map[string]bool{
	"capture": true, "once": true, "passive": true, "native": true, "exact": true,
}

// eventName applies the registration modifiers to a listener name.
func eventName(name string, mods []string) string {
	if hasModifier(mods, "right") && name == "click" {
		name = "contextmenu"
	} else if hasModifier(mods, "middle") && name == "click" {
		name = "mouseup"
	}
	if hasModifier(mods, "capture") {
		name = "!" + name
	}
	if hasModifier(mods, "once") {
		name = "~" + name
	}
	if hasModifier(mods, "passive") {
		name = "&" + name
	}
	return name
}

// handlerCode generates the listener function for a v-on value.
func handlerCode(event, value string, mods []string) string {
	if strings.TrimSpace(value) == "" {
		return "function(){}"
	}
	isMethodPath := simplePathRE.MatchString(value)
	isFunctionExpression := fnExpRE.MatchString(value)
	isFunctionInvocation := simplePathRE.MatchString(fnInvokeRE.ReplaceAllString(value, ""))

	var guards strings.Builder
	var keys []string
	for _, m := range mods {
		if listenerModifiers[m] {
			continue
		}
		if g, ok := modifierGuards[m]; ok {
			// right and middle rename click, so their button guard is redundant
			if (m == "right" || m == "middle") && event == "click" {
				continue
			}
			guards.WriteString(g)
			continue
		}
		keys = append(keys, m)
	}
	if len(keys) > 0 {
		conds := make([]string, len(keys))
		for i, k := range keys {
			names, ok := keyNames[k]
			if !ok {
				names = []string{k}
			}
			quoted := make([]string, len(names))
			for j, n := range names {
				quoted[j] = jsString(n)
			}
			conds[i] = "[" + strings.Join(quoted, ",") + "].indexOf($event.key)<0"
		}
		guards.WriteString("if(!$event.type.indexOf('key')&&" + strings.Join(conds, "&&") + ")return null;")
	}

	if guards.Len() == 0 {
		if isMethodPath || isFunctionExpression {
			return value
		}
		if isFunctionInvocation {
			return "function($event){return " + value + "}"
		}
		return "function($event){" + value + "}"
	}

	var body string
	switch {
	case isMethodPath:
		body = "return " + value + ".apply(null, arguments)"
	case isFunctionExpression:
		body = "return (" + value + ").apply(null, arguments)"
	case isFunctionInvocation:
		body = "return " + value
	default:
		body = value
	}
	return "function($event){" + guards.String() + body + "}"
}

// ---------------------------------------------------------------------------
// v-model
// ---------------------------------------------------------------------------

func assignment(target, value string) string {
	return target + "=" + value
}

func modelValue(value string, mods []string) string {
	if hasModifier(mods, "trim") {
		value = "(typeof " + value + " === 'string' ? " + value + ".trim() : " + value + ")"
	}
	if hasModifier(mods, "number") {
		value = "_n(" + value + ")"
	}
	return value
}
