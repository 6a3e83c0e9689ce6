package compiler

// optimize marks subtrees that never change between renders. Static roots
// are rendered once by a static render function and reused.
func optimize(root *astNode) {
	if root == nil {
		return
	}
	markStatic(root)
	markStaticRoots(root, false)
}

func isStatic(n *astNode) bool {
	switch n.Kind {
	case exprKind:
		return false
	case textKind:
		return true
	}
	if n.Pre {
		return true
	}
	return !n.HasBindings &&
		n.If == "" && n.For == "" && !n.isElse() && !n.Once &&
		n.Key == "" && n.Ref == "" && n.SlotTarget == "" && n.Component == "" &&
		n.name() != "slot" && n.name() != "component" &&
		isPlatformTag(n.name()) &&
		!isDirectChildOfTemplateFor(n)
}

func isPlatformTag(tag string) bool {
	return isReserved(tag) && tag != "slot" && tag != "component"
}

func isDirectChildOfTemplateFor(n *astNode) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.name() != "template" {
			return false
		}
		if p.For != "" {
			return true
		}
	}
	return false
}

func markStatic(n *astNode) {
	n.Static = isStatic(n)
	if n.Kind != elementKind {
		return
	}
	// Component children are slot content and stay dynamic.
	if !isPlatformTag(n.name()) && n.name() != "slot" {
		return
	}
	for _, c := range n.Children {
		markStatic(c)
		if !c.Static {
			n.Static = false
		}
	}
	for _, cond := range n.IfConditions[min(1, len(n.IfConditions)):] {
		markStatic(cond.Block)
		if !cond.Block.Static {
			n.Static = false
		}
	}
}

func markStaticRoots(n *astNode, inFor bool) {
	if n.Kind != elementKind {
		return
	}
	if n.Static || n.Once {
		n.StaticInFor = inFor
	}
	// A lone text child is cheaper to render than to hoist.
	if n.Static && len(n.Children) > 0 && !(len(n.Children) == 1 && n.Children[0].Kind == textKind) {
		n.StaticRoot = true
		return
	}
	n.StaticRoot = false
	for _, c := range n.Children {
		markStaticRoots(c, inFor || n.For != "")
	}
	for _, cond := range n.IfConditions[min(1, len(n.IfConditions)):] {
		markStaticRoots(cond.Block, inFor)
	}
}
