package load

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const thingSource = `import Duet

public final class Thing: Codable {
  public var id: Id
  public var name: String // the display name
  public var parentId: Other.Id?
  public var fooId: FooId
  public var status: Status
  public var count: Int = 0
  public var createdAt = Date()
  public var updatedAt = Date()
  public var deletedAt: Date?

  public var owner = Parent<User>.notLoaded
  public var children = Children<Widget>.notLoaded

  public var isNamed: Bool {
    !name.isEmpty
  }

  public init(
    id: Id = .init(),
    name: String,
    parentId: Other.Id? = nil,
    fooId: FooId,
    status: Status = .active,
    count: Int = 0
  ) {
    self.id = id
    self.name = name
    self.parentId = parentId
    self.fooId = fooId
    self.status = status
    self.count = count
  }
}
`

const thingExtensionSource = `import Duet

extension Thing {
  var label: String {
    name.uppercased()
  }

  typealias FooId = Tagged<(Thing, foo: ()), Int>
  typealias PaymentId = Tagged<Thing, String>

  enum Status: String, Codable, CaseIterable {
    case active
    case inactive, archived
  }

  struct Meta: Codable, PostgresJsonable {
    var a: Int
  }
}
`

const thingMigrationSource = `import DuetSQL

extension Thing {
  enum M1: TableNamingMigration {
    static let tableName = "things"
  }

  enum M3 {
    static let tableName = "thingies"
  }

  enum M2: TableNamingMigration {
    static let tableName = "thing_things"
  }
}
`

func fieldPairs(fields []*Field) [][2]string {
	pairs := make([][2]string, 0, len(fields))
	for _, f := range fields {
		pairs = append(pairs, [2]string{f.Name, f.Type})
	}
	return pairs
}

func TestScanModels_Body(t *testing.T) {
	schemas, err := ScanModels([]*File{
		{Path: "Sources/App/Models/Things/Thing.swift", Source: thingSource},
	})
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	s := schemas[0]
	assert.Equal(t, "Thing", s.Name)
	assert.Equal(t, "Sources/App/Models/Things/Thing.swift:3", s.Pos())
	assert.Equal(t, 0, s.Migration)
	assert.Equal(t, [][2]string{
		{"id", "Id"},
		{"name", "String"},
		{"parentId", "Other.Id?"},
		{"fooId", "FooId"},
		{"status", "Status"},
		{"count", "Int"},
		{"createdAt", "Date"},
		{"updatedAt", "Date"},
		{"deletedAt", "Date?"},
	}, fieldPairs(s.Fields))
	assert.Equal(t, [][2]string{{"isNamed", "Bool"}}, fieldPairs(s.Computed))
	assert.Equal(t, []*Edge{
		{Name: "owner", Rel: "Parent", Type: "User"},
		{Name: "children", Rel: "Children", Type: "Widget"},
	}, s.Edges)
	assert.Equal(t, []*InitParam{
		{Name: "id", HasDefault: true},
		{Name: "name"},
		{Name: "parentId", HasDefault: true},
		{Name: "fooId"},
		{Name: "status", HasDefault: true},
		{Name: "count", HasDefault: true},
	}, s.Init)

	assert.True(t, s.Fields[2].Optional())
	assert.Equal(t, "Other.Id", s.Fields[2].Bare())
	assert.False(t, s.Fields[3].Optional())
}

func TestScanModels_ComputedModifiers(t *testing.T) {
	src := `public final class Thing: Codable {
  public var id: Id
  private var cached: String {
    "cached"
  }
  fileprivate var other: [String: Int] {
    [:]
  }
  public private(set) var label: String { name }
  internal var handler: (Int) -> Bool { { $0 > 0 } }
  var name: String
  var onChange: () -> Void = {}
}
`
	schemas, err := ScanModels([]*File{{Path: "Sources/App/Models/Thing.swift", Source: src}})
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	s := schemas[0]
	assert.Equal(t, [][2]string{
		{"id", "Id"},
		{"name", "String"},
		{"onChange", "() -> Void"},
	}, fieldPairs(s.Fields))
	assert.Equal(t, [][2]string{
		{"cached", "String"},
		{"other", "[String: Int]"},
		{"label", "String"},
		{"handler", "(Int) -> Bool"},
	}, fieldPairs(s.Computed))
}

func TestScanModels_SingleLineInit(t *testing.T) {
	src := `final class Tag: Codable {
  var id: Id
  var tags: [String: Int]
  var label: String

  init(id: Id = .init(), tags: [String: Int] = [:], _ label: String) {
    self.id = id
  }
}
`
	schemas, err := ScanModels([]*File{{Path: "Sources/App/Models/Tag.swift", Source: src}})
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, []*InitParam{
		{Name: "id", HasDefault: true},
		{Name: "tags", HasDefault: true},
		{Name: "label"},
	}, schemas[0].Init)
	assert.Equal(t, [][2]string{
		{"id", "Id"},
		{"tags", "[String: Int]"},
		{"label", "String"},
	}, fieldPairs(schemas[0].Fields))
}

func TestScanModels_EmptyInit(t *testing.T) {
	src := `struct Empty: Codable {
  var id: Id
  init() {}
  var name: String
}
`
	schemas, err := ScanModels([]*File{{Path: "Sources/App/Entities/Empty.swift", Source: src}})
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Empty(t, schemas[0].Init)
	assert.Equal(t, [][2]string{{"id", "Id"}, {"name", "String"}}, fieldPairs(schemas[0].Fields))
}

func TestScanModels_MalformedInit(t *testing.T) {
	src := `public final class Thing: Codable {
  public var id: Id

  public init(
    id: Id,
    some garbage here
  ) {
    self.id = id
  }
}
`
	_, err := ScanModels([]*File{{Path: "Sources/App/Models/Thing.swift", Source: src}})
	require.Error(t, err)
	assert.True(t, IsScanError(err))
	assert.True(t, errors.Is(err, ErrScan))

	var scanErr *ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.Equal(t, "Thing", scanErr.Entity)
	assert.Equal(t, 6, scanErr.Line)
	assert.Equal(t, "some garbage here", scanErr.Text)
	assert.Contains(t, err.Error(), "Thing")
	assert.Contains(t, err.Error(), "some garbage here")
}

func TestScanModels_UnterminatedInit(t *testing.T) {
	src := `final class Thing: Codable {
  init(
    id: Id,
`
	_, err := ScanModels([]*File{{Path: "Sources/App/Models/Thing.swift", Source: src}})
	require.Error(t, err)
	assert.True(t, IsScanError(err))
	assert.Contains(t, err.Error(), "unterminated")
}

func TestScanModels_CommentsInInit(t *testing.T) {
	src := `final class Thing: Codable {
  var url: String

  init(
    // where it lives
    url: String = "https://example.com", // default host

    id: Id
  ) {}
}
`
	schemas, err := ScanModels([]*File{{Path: "Sources/App/Models/Thing.swift", Source: src}})
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, []*InitParam{
		{Name: "url", HasDefault: true},
		{Name: "id"},
	}, schemas[0].Init)
}

func TestScanModels_Extensions(t *testing.T) {
	schemas, err := ScanModels([]*File{
		{Path: "Sources/App/Models/Things/Thing.swift", Source: thingSource},
		{Path: "Sources/App/Models/Things/Thing+Extensions.swift", Source: thingExtensionSource},
		{Path: "Sources/App/Migrations/Thing+Migrations.swift", Source: thingMigrationSource},
	})
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	s := schemas[0]
	assert.Equal(t, 3, s.Migration, "highest migration number wins")
	assert.Equal(t, [][2]string{{"isNamed", "Bool"}, {"label", "String"}}, fieldPairs(s.Computed))
	assert.Equal(t, map[string]string{"FooId": "Int", "PaymentId": "String"}, s.Aliases)
	assert.Equal(t, map[string][]string{"Status": {"active", "inactive", "archived"}}, s.Enums)
	assert.Equal(t, []string{"Meta"}, s.JSON)
	assert.True(t, s.IsJSON("Meta"))
	assert.True(t, s.IsEnum("Status"))
	prim, ok := s.Newtype("FooId")
	assert.True(t, ok)
	assert.Equal(t, "Int", prim)
}

func TestScanModels_ExtensionOutsideModelDirs(t *testing.T) {
	schemas, err := ScanModels([]*File{
		{Path: "Sources/App/Models/Things/Thing.swift", Source: thingSource},
		{Path: "Sources/App/Other/Thing+Extensions.swift", Source: thingExtensionSource},
		{Path: "Sources/App/Other/Thing+Migrations.swift", Source: thingMigrationSource},
	})
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	s := schemas[0]
	assert.Equal(t, 3, s.Migration, "migration numbers are read from every file")
	assert.Len(t, s.Computed, 1)
	assert.Empty(t, s.Aliases)
	assert.Empty(t, s.Enums)
}

func TestScanModels_SkipsFilesWithoutModelInfo(t *testing.T) {
	schemas, err := ScanModels([]*File{
		{Path: "Sources/App/Models/Generated/Thing.swift", Source: thingSource},
		{Path: "Sources/App/Repository/Thing.swift", Source: thingSource},
		{Path: "Sources/App/Lib/Thing.swift", Source: thingSource},
	})
	require.NoError(t, err)
	assert.Empty(t, schemas)
}

func TestScanModels_Redeclared(t *testing.T) {
	_, err := ScanModels([]*File{
		{Path: "Sources/App/Models/A/Thing.swift", Source: thingSource},
		{Path: "Sources/App/Models/B/Thing.swift", Source: thingSource},
	})
	require.Error(t, err)
	assert.True(t, IsScanError(err))
	assert.Contains(t, err.Error(), "Sources/App/Models/A/Thing.swift:3")
}

func TestScanModels_Order(t *testing.T) {
	a := "final class Alpha: Codable {\n  var id: Id\n}\n\nfinal class Beta: Codable {\n  var id: Id\n}\n"
	b := "public final class Gamma: Codable {\n  var id: Id\n}\n"
	schemas, err := ScanModels([]*File{
		{Path: "Sources/App/Models/B.swift", Source: b},
		{Path: "Sources/App/Models/A.swift", Source: a},
	})
	require.NoError(t, err)
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, names)
}

func TestHasModelInfo(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"Sources/App/Models/Thing.swift", true},
		{"Sources/App/Migrations/Thing+M1.swift", true},
		{"Sources/App/Entities/Thing.swift", true},
		{"Sources/App/Lib/Thing.swift", false},
		{"Models/Thing.swift", false},
		{"Sources/App/Models/Generated/Thing.swift", false},
		{"Sources/App/Models/ThingRepository.swift", false},
		{"Sources/App/Models/ThingResolver.swift", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasModelInfo(tt.path))
		})
	}
}
