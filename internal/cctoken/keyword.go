// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cctoken

// KeywordKind enumerates the C11 keywords, [6.4.1].
type KeywordKind int

const (
	KwAuto KeywordKind = iota
	KwBreak
	KwCase
	KwChar
	KwConst
	KwContinue
	KwDefault
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwExtern
	KwFloat
	KwFor
	KwGoto
	KwIf
	KwInline
	KwInt
	KwLong
	KwRegister
	KwRestrict
	KwReturn
	KwShort
	KwSigned
	KwSizeof
	KwStatic
	KwStruct
	KwSwitch
	KwTypedef
	KwUnion
	KwUnsigned
	KwVoid
	KwVolatile
	KwWhile
	KwAlignas
	KwAlignof
	KwAtomic
	KwBool
	KwComplex
	KwGeneric
	KwImaginary
	KwNoreturn
	KwStaticAssert
	KwThreadLocal
)

// KeywordTable maps every reserved identifier spelling to its keyword kind.
// Phase 7 (spec.md 4.7) consults this table to reclassify identifier
// pp-tokens into keyword tokens.
var KeywordTable = map[string]KeywordKind{
	"auto":            KwAuto,
	"break":           KwBreak,
	"case":            KwCase,
	"char":            KwChar,
	"const":           KwConst,
	"continue":        KwContinue,
	"default":         KwDefault,
	"do":              KwDo,
	"double":          KwDouble,
	"else":            KwElse,
	"enum":            KwEnum,
	"extern":          KwExtern,
	"float":           KwFloat,
	"for":             KwFor,
	"goto":            KwGoto,
	"if":              KwIf,
	"inline":          KwInline,
	"int":             KwInt,
	"long":            KwLong,
	"register":        KwRegister,
	"restrict":        KwRestrict,
	"return":          KwReturn,
	"short":           KwShort,
	"signed":          KwSigned,
	"sizeof":          KwSizeof,
	"static":          KwStatic,
	"struct":          KwStruct,
	"switch":          KwSwitch,
	"typedef":         KwTypedef,
	"union":           KwUnion,
	"unsigned":        KwUnsigned,
	"void":            KwVoid,
	"volatile":        KwVolatile,
	"while":           KwWhile,
	"_Alignas":        KwAlignas,
	"_Alignof":        KwAlignof,
	"_Atomic":         KwAtomic,
	"_Bool":           KwBool,
	"_Complex":        KwComplex,
	"_Generic":        KwGeneric,
	"_Imaginary":      KwImaginary,
	"_Noreturn":       KwNoreturn,
	"_Static_assert":  KwStaticAssert,
	"_Thread_local":   KwThreadLocal,
}

// TypeSpecifierKeywords is the subset of keywords that, standing alone,
// begin a declaration-specifier list; the declarator ruleset (spec.md
// section 4.8) registers each as a prefix unary rule.
var TypeSpecifierKeywords = map[KeywordKind]bool{
	KwVoid: true, KwChar: true, KwShort: true, KwInt: true, KwLong: true,
	KwFloat: true, KwDouble: true, KwSigned: true, KwUnsigned: true,
	KwBool: true, KwComplex: true, KwStruct: true, KwUnion: true, KwEnum: true,
	KwConst: true, KwVolatile: true, KwRestrict: true, KwAtomic: true,
}
