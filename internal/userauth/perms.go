package userauth

type PermKind int

const (
	PermInvite PermKind = iota
	PermManageTeams
	PermManageMatches
	PermManageTournaments
	PermAdmin
	PermMax
)

var permNames = [PermMax]struct {
	id     string
	pretty string
}{
	PermInvite:            {"invite", "Invite"},
	PermManageTeams:       {"manage-teams", "Manage teams and players"},
	PermManageMatches:     {"manage-matches", "Manage matches"},
	PermManageTournaments: {"manage-tournaments", "Manage tournaments"},
	PermAdmin:             {"admin", "Admin"},
}

func (k PermKind) String() string {
	if k < 0 || k >= PermMax {
		panic("bad perm")
	}
	return permNames[k].id
}

func (k PermKind) PrettyString() string {
	if k < 0 || k >= PermMax {
		panic("bad perm")
	}
	return permNames[k].pretty
}

type Perms struct {
	IsOwner   bool
	IsBlocked bool

	CanInvite            bool
	CanManageTeams       bool
	CanManageMatches     bool
	CanManageTournaments bool
	CanAdmin             bool
}

func (p *Perms) GetMut(k PermKind) *bool {
	switch k {
	case PermInvite:
		return &p.CanInvite
	case PermManageTeams:
		return &p.CanManageTeams
	case PermManageMatches:
		return &p.CanManageMatches
	case PermManageTournaments:
		return &p.CanManageTournaments
	case PermAdmin:
		return &p.CanAdmin
	default:
		panic("bad perm to get")
	}
}

func (p Perms) Get(k PermKind) bool {
	if p.IsBlocked {
		return false
	}
	if p.IsOwner {
		return true
	}
	return *p.GetMut(k)
}

// Any reports whether the user may see the dashboard at all.
func (p Perms) Any() bool {
	for k := range PermMax {
		if p.Get(k) {
			return true
		}
	}
	return false
}

func OwnerPerms() Perms {
	p := Perms{IsOwner: true}
	for k := range PermMax {
		*p.GetMut(k) = true
	}
	return p
}

func BlockedPerms() Perms {
	return Perms{IsBlocked: true}
}

func (p Perms) LessEq(q Perms) bool {
	if p.IsBlocked || q.IsBlocked {
		return p.IsBlocked
	}
	for k := range PermMax {
		if p.Get(k) && !q.Get(k) {
			return false
		}
	}
	return true
}

// CanChangePerms checks whether initiator is allowed to replace the perms of u with newPerms.
func (u *User) CanChangePerms(initiator *User, newPerms Perms) error {
	if newPerms.IsBlocked {
		newPerms = BlockedPerms()
	}

	// Nobody changes the owner, the owner included.
	if u.Perms.IsOwner {
		return inputErr("cannot change the owner's permissions")
	}
	if newPerms.IsOwner {
		return inputErr("cannot make anyone owner")
	}
	if initiator.Perms.IsOwner {
		return nil
	}
	if !initiator.Perms.Get(PermAdmin) {
		return inputErr("insufficient privilege for this operation")
	}

	// Admins may edit themselves as long as they stay admins.
	if initiator.ID == u.ID {
		if !newPerms.Get(PermAdmin) {
			return inputErr("cannot downgrade yourself from admin")
		}
		return nil
	}

	// Only the owner manages other admins.
	if u.Perms.Get(PermAdmin) || newPerms.Get(PermAdmin) {
		return inputErr("insufficient privilege for this operation")
	}
	return nil
}

// TryChangePerms replaces the perms of u if initiator is allowed to do so.
func (u *User) TryChangePerms(initiator *User, newPerms Perms) error {
	if err := u.CanChangePerms(initiator, newPerms); err != nil {
		return err
	}
	if newPerms.IsBlocked {
		newPerms = BlockedPerms()
	}
	u.Perms = newPerms
	u.Epoch++
	return nil
}
