package layout

import "fmt"

// MacTable maps IP addresses to 48-bit MAC values. It covers the board's
// source address and every destination. An IP maps to exactly one MAC;
// re-adding an IP with a different MAC is an error rather than a silent
// overwrite.
type MacTable map[string]uint64

// Add inserts an IP-to-MAC entry. Re-inserting the same pair is a no-op.
func (t MacTable) Add(ip string, mac uint64) error {
	if existing, ok := t[ip]; ok && existing != mac {
		return fmt.Errorf(
			"conflicting MAC for %s: have %#x, adding %#x",
			ip, existing, mac)
	}
	t[ip] = mac
	return nil
}

// BuildMacTable assembles the table for one board from its source address
// and destination list.
func BuildMacTable(
	b *BoardDescriptor,
	common *CommonSpec,
) (MacTable, error) {
	table := make(MacTable)

	srcMAC, err := ParseMAC(b.Source.MAC)
	if err != nil {
		return nil, err
	}
	if err := table.Add(b.Source.IP, srcMAC); err != nil {
		return nil, err
	}

	for _, d := range b.EffectiveDestinations(common) {
		mac, err := ParseMAC(d.MAC)
		if err != nil {
			return nil, err
		}
		if err := table.Add(d.IP, mac); err != nil {
			return nil, err
		}
	}

	return table, nil
}
