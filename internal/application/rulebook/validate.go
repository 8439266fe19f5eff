package rulebook

import (
	"xuankong-api/internal/domain/entity"
	apperrors "xuankong-api/pkg/errors"
)

// Branches 十二地支，子为 0
var Branches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

func invalid(format string, args ...any) error {
	return apperrors.Internal(apperrors.CodeRuleTableError, format, args...)
}

// Validate 校验规则表结构完整，任何缺项都视为内部错误
func (b *Rulebook) Validate() error {
	if err := b.Diagnostic.validate(); err != nil {
		return err
	}
	if err := b.Chengmen.validate(); err != nil {
		return err
	}
	if err := b.Remedies.validate(); err != nil {
		return err
	}
	return b.KeyPositions.validate()
}

func (t *DiagnosticTable) validate() error {
	if len(t.Rules) == 0 {
		return invalid("diagnostic table has no rules")
	}
	for _, s := range t.HarmfulVisitors {
		if !s.Valid() {
			return invalid("harmful visitor star %d is invalid", s)
		}
	}
	for i, r := range t.Rules {
		if r.Type == "" {
			return invalid("diagnostic rule %d has no type", i)
		}
		if r.Kind != KindInauspicious && r.Kind != KindAuspicious {
			return invalid("diagnostic rule %s has unknown kind %q", r.Type, r.Kind)
		}
		if r.Weight < 0 || r.Weight > 100 {
			return invalid("diagnostic rule %s weight %d is outside 0-100", r.Type, r.Weight)
		}
		for _, s := range r.Match.Stars {
			if !s.Valid() {
				return invalid("diagnostic rule %s matches invalid star %d", r.Type, s)
			}
		}
		m := r.Match
		if len(m.Stars) == 0 && m.Sum == 0 && !m.PeriodPair && m.Pattern == "" {
			return invalid("diagnostic rule %s has an empty match", r.Type)
		}
		if m.Pattern != "" && m.At != "facing" && m.At != "sitting" {
			return invalid("diagnostic rule %s pattern needs at: facing|sitting", r.Type)
		}
	}
	return nil
}

func (t *ChengmenTable) validate() error {
	seen := make(map[string]bool, len(t.Rules))
	for _, r := range t.Rules {
		if r.ID == "" || seen[r.ID] {
			return invalid("chengmen rule id %q is empty or duplicated", r.ID)
		}
		seen[r.ID] = true
		if !r.Period.Valid() || !r.TargetPalace.Valid() {
			return invalid("chengmen rule %s has invalid period or palace", r.ID)
		}
		if _, ok := t.GateLabels[r.GateType]; !ok {
			return invalid("chengmen rule %s has unknown gate type %q", r.ID, r.GateType)
		}
		if _, ok := t.MethodActivation[r.Method]; !ok {
			return invalid("chengmen rule %s has unknown method %q", r.ID, r.Method)
		}
		if r.Effectiveness.Bonus() == 0 {
			return invalid("chengmen rule %s has unknown effectiveness %q", r.ID, r.Effectiveness)
		}
		for _, s := range []entity.Star{r.Trigger.MountainStar, r.Trigger.FacingStar, r.Trigger.PeriodStar} {
			if s != 0 && !s.Valid() {
				return invalid("chengmen rule %s has invalid star %d", r.ID, s)
			}
		}
	}
	for _, name := range []string{entity.CombinationSanban, entity.CombinationHeshi, entity.CombinationQixing} {
		def, ok := t.Specials[name]
		if !ok || def.Effectiveness.Bonus() == 0 {
			return invalid("special combination %s is missing or has no effectiveness", name)
		}
	}
	for _, p := range entity.AllPalaces() {
		if _, ok := t.TrigramTaboos[p.Trigram()]; !ok {
			return invalid("trigram %s has no taboos", p.Trigram())
		}
	}
	return nil
}

func (t *RemedyTable) validate() error {
	if _, ok := t.Templates[DefaultTemplate]; !ok {
		return invalid("remedy table has no %s template", DefaultTemplate)
	}
	for name, tpl := range t.Templates {
		if _, ok := tpl.Tiers[entity.TierBasic]; !ok {
			return invalid("remedy template %s has no basic tier", name)
		}
		for tier, tt := range tpl.Tiers {
			if len(tt.Steps) == 0 {
				return invalid("remedy template %s/%s has no steps", name, tier)
			}
			for _, it := range tt.Items {
				if it.Quantity <= 0 || it.CostMin < 0 || it.CostMin > it.CostMax {
					return invalid("remedy item %s in %s/%s has invalid quantity or cost", it.Name, name, tier)
				}
				if it.MinSeverity != "" && !it.MinSeverity.Valid() {
					return invalid("remedy item %s has invalid min_severity %q", it.Name, it.MinSeverity)
				}
			}
			for _, st := range tt.Steps {
				if st.MinSeverity != "" && !st.MinSeverity.Valid() {
					return invalid("remedy step %s has invalid min_severity %q", st.Title, st.MinSeverity)
				}
			}
		}
	}
	return nil
}

func (t *KeyPositionTable) validate() error {
	for _, p := range entity.AllPalaces() {
		d := p.Direction()
		if d == entity.DirectionCenter {
			continue
		}
		spots, ok := t.Directions[d]
		if !ok {
			return invalid("key position table has no entry for %s", d)
		}
		for _, target := range []entity.Direction{spots.Wealth, spots.Study, spots.Romance} {
			if target.Palace() == 0 || target == entity.DirectionCenter {
				return invalid("key position entry %s points to invalid direction %q", d, target)
			}
		}
	}
	for _, br := range Branches {
		if t.RomanceByBranch[br].Palace() == 0 || t.BenefactorByBranch[br].Palace() == 0 {
			return invalid("branch %s has no romance or benefactor direction", br)
		}
	}
	if len(t.DefaultRanking) == 0 {
		return invalid("key position table has no default ranking")
	}
	return nil
}
