package models

// Make is the top level of the vehicle taxonomy.
type Make struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;uniqueIndex:makes_name_key"`
}

// Model belongs to a Make; name is unique within the make.
type Model struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	MakeID int64  `gorm:"column:make_id;not null;uniqueIndex:models_make_name_key;index:models_make_id_idx"`
	Name   string `gorm:"column:name;not null;uniqueIndex:models_make_name_key"`
	Make   *Make  `gorm:"foreignKey:MakeID"`
}

// ModelVariant belongs to a Model; name is unique within the model.
type ModelVariant struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ModelID int64  `gorm:"column:model_id;not null;uniqueIndex:model_variants_model_name_key;index:model_variants_model_id_idx"`
	Name    string `gorm:"column:name;not null;uniqueIndex:model_variants_model_name_key"`
	Model   *Model `gorm:"foreignKey:ModelID"`
}
