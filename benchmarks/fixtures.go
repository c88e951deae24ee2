// Package benchmarks measures full generation passes over synthetic models.
package benchmarks

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// BaseEntity returns the mapped superclass every generated entity extends
func BaseEntity() string {
	return `package com.bench;

import javax.persistence.*;

@MappedSuperclass
public abstract class BaseEntity<ID extends java.io.Serializable> {
    @Id
    private ID id;
    private java.time.Instant createdAt;
    private long version;
}
`
}

// Entity returns the source of entity i. Each entity refers to its
// predecessor so relationships cross files.
func Entity(i int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `package com.bench;

import java.util.*;
import javax.persistence.*;

@Entity
public class Entity%d extends BaseEntity<Long> {
    private String name;
    private int count;
    private boolean active;
    private Set<String> tags;
    private Map<String, Integer> scores;
`, i)
	if i > 0 {
		fmt.Fprintf(&sb, `
    @ManyToOne
    private Entity%d parent;

    @OneToMany(targetEntity = Entity%d.class)
    private List<Object> siblings;
`, i-1, i-1)
	}
	sb.WriteString(`
    @Transient
    private String cache;
}
`)
	return sb.String()
}

// Manifest returns a YAML manifest declaring count embeddables
func Manifest(count int) string {
	var sb strings.Builder
	sb.WriteString("package: com.bench.values\nimports: [java.util.*]\ntypes:\n")
	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, `  - name: Value%d
    annotations: [javax.persistence.Embeddable]
    members:
      - name: label
        type: String
      - name: amounts
        type: List<java.math.BigDecimal>
      - name: weight
        type: double
`, i)
	}
	return sb.String()
}

// WriteProject lays out a base class, entities Java entities and a manifest
// of embeddables values under root
func WriteProject(fs afero.Fs, root string, entities, embeddables int) error {
	files := map[string]string{
		path.Join(root, "com", "bench", "BaseEntity.java"): BaseEntity(),
		path.Join(root, "model", "values.yaml"):            Manifest(embeddables),
	}
	for i := 0; i < entities; i++ {
		files[path.Join(root, "com", "bench", fmt.Sprintf("Entity%d.java", i))] = Entity(i)
	}
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
